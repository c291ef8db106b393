package rpc

import (
	"encoding/json"
	"github.com/rigochain/rigo-vote/ctrlers/voting"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	abytes "github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
	tmrpccoretypes "github.com/tendermint/tendermint/rpc/core/types"
	tmrpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var hexReg = regexp.MustCompile(`(?i)[a-f0-9]{40,}`)

func abciQuery(ctx *tmrpctypes.Context, path string, data []byte) (*QueryResult, error) {
	if resp, err := tmrpccore.ABCIQuery(ctx, path, tmbytes.HexBytes(data), 0, false); err != nil {
		return nil, err
	} else {
		return &QueryResult{resp.Response}, nil
	}
}

func QueryAccount(ctx *tmrpctypes.Context, addr abytes.HexBytes) (*QueryResult, error) {
	return abciQuery(ctx, "account", addr)
}

func QueryVoter(ctx *tmrpctypes.Context, addr abytes.HexBytes) (*QueryResult, error) {
	return abciQuery(ctx, voting.QUERY_VOTER, addr)
}

func QueryProposal(ctx *tmrpctypes.Context, id int64) (*QueryResult, error) {
	if id < 0 || id > math.MaxUint32 {
		return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong proposal id: %v", id)
	}
	return abciQuery(ctx, voting.QUERY_PROPOSAL, []byte(strconv.FormatInt(id, 10)))
}

func QueryProposals(ctx *tmrpctypes.Context) (*QueryResult, error) {
	return abciQuery(ctx, voting.QUERY_PROPOSALS, nil)
}

func QueryVote(ctx *tmrpctypes.Context, voter abytes.HexBytes, id int64) (*QueryResult, error) {
	if id < 0 || id > math.MaxUint32 {
		return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong proposal id: %v", id)
	}
	bz, err := json.Marshal(&voting.VoteQueryParams{
		Voter:      voter,
		ProposalID: proposal.ProposalID(id),
	})
	if err != nil {
		return nil, err
	}
	return abciQuery(ctx, voting.QUERY_VOTE, bz)
}

func QueryCounter(ctx *tmrpctypes.Context) (*QueryResult, error) {
	return abciQuery(ctx, voting.QUERY_COUNTER, nil)
}

func QueryVotingParams(ctx *tmrpctypes.Context) (*QueryResult, error) {
	return abciQuery(ctx, voting.QUERY_PARAMS, nil)
}

func Subscribe(ctx *tmrpctypes.Context, query string) (*tmrpccoretypes.ResultSubscribe, error) {
	// events can be subscribed only over websocket.
	if ctx.WSConn == nil || ctx.JSONReq == nil {
		return nil, xerrors.New("error connection type: no websocket connection")
	}
	// the event attributes carry addresses in upper case hex.
	return tmrpccore.Subscribe(ctx, upperHex(query))
}

func Unsubscribe(ctx *tmrpctypes.Context, query string) (*tmrpccoretypes.ResultUnsubscribe, error) {
	return tmrpccore.Unsubscribe(ctx, upperHex(query))
}

func TxSearch(
	ctx *tmrpctypes.Context,
	query string,
	prove bool,
	pagePtr, perPagePtr *int,
	orderBy string,
) (*tmrpccoretypes.ResultTxSearch, error) {
	return tmrpccore.TxSearch(ctx, upperHex(query), prove, pagePtr, perPagePtr, orderBy)
}

func upperHex(query string) string {
	return hexReg.ReplaceAllStringFunc(query, strings.ToUpper)
}
