package rpc

import (
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
	tmrpccore_server "github.com/tendermint/tendermint/rpc/jsonrpc/server"
)

func AddRoutes() {
	tmrpccore.Routes["account"] = tmrpccore_server.NewRPCFunc(QueryAccount, "addr")
	tmrpccore.Routes["voter"] = tmrpccore_server.NewRPCFunc(QueryVoter, "addr")
	tmrpccore.Routes["proposal"] = tmrpccore_server.NewRPCFunc(QueryProposal, "id")
	tmrpccore.Routes["proposals"] = tmrpccore_server.NewRPCFunc(QueryProposals, "")
	tmrpccore.Routes["vote"] = tmrpccore_server.NewRPCFunc(QueryVote, "voter,id")
	tmrpccore.Routes["vote_counter"] = tmrpccore_server.NewRPCFunc(QueryCounter, "")
	tmrpccore.Routes["voting_params"] = tmrpccore_server.NewRPCFunc(QueryVotingParams, "")
	tmrpccore.Routes["subscribe"] = tmrpccore_server.NewRPCFunc(Subscribe, "query")
	tmrpccore.Routes["unsubscribe"] = tmrpccore_server.NewRPCFunc(Unsubscribe, "query")
	tmrpccore.Routes["tx_search"] = tmrpccore_server.NewRPCFunc(TxSearch, "query,prove,page,per_page,order_by")
}
