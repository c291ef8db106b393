package node

import (
	"github.com/rigochain/rigo-vote/ctrlers/voting"
	"github.com/rigochain/rigo-vote/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const QUERY_ACCOUNT = "account"

// Query serves the state committed at the last block.
func (app *VoteApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	response := abcitypes.ResponseQuery{
		Code: abcitypes.CodeTypeOK,
		Key:  req.Data,
	}

	var xerr xerrors.XError

	switch req.Path {
	case QUERY_ACCOUNT:
		response.Value, xerr = app.acctCtrler.Query(req)
	case voting.QUERY_VOTER, voting.QUERY_PROPOSAL, voting.QUERY_PROPOSALS,
		voting.QUERY_VOTE, voting.QUERY_COUNTER, voting.QUERY_PARAMS:
		response.Value, xerr = app.votingCtrler.Query(req)
	default:
		response.Value, xerr = nil, xerrors.ErrInvalidQueryPath
	}

	if xerr != nil {
		response.Code = xerr.Code()
		response.Log = xerr.Error()
	}
	if app.lastBlockCtx != nil {
		response.Height = app.lastBlockCtx.Height()
	}
	return response
}
