package voting

import (
	"encoding/json"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"strconv"
)

const (
	QUERY_VOTER     = "voter"
	QUERY_PROPOSAL  = "proposal"
	QUERY_PROPOSALS = "proposals"
	QUERY_VOTE      = "vote"
	QUERY_COUNTER   = "counter"
	QUERY_PARAMS    = "params"
)

// VoteQueryParams is the `data` of the `vote` query.
type VoteQueryParams struct {
	Voter      types.Address       `json:"voter"`
	ProposalID proposal.ProposalID `json:"proposalId"`
}

type VoterQueryResult struct {
	Address    types.Address `json:"address"`
	Registered bool          `json:"registered"`
}

// Query serves the committed state only.
func (ctrler *VotingCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	var ret interface{}

	switch req.Path {
	case QUERY_VOTER:
		addr := types.Address(req.Data)
		if len(addr) != types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong address: %v", addr)
		}
		ret = &VoterQueryResult{
			Address:    addr,
			Registered: ctrler.IsRegistered(addr),
		}
	case QUERY_PROPOSAL:
		id, err := strconv.ParseUint(string(req.Data), 10, 32)
		if err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		prop, xerr := ctrler.ReadProposal(proposal.ProposalID(id))
		if xerr != nil {
			return nil, xerr
		}
		ret = prop
	case QUERY_PROPOSALS:
		props, xerr := ctrler.ReadAllProposals()
		if xerr != nil {
			return nil, xerr
		}
		ret = props
	case QUERY_VOTE:
		params := &VoteQueryParams{}
		if err := json.Unmarshal(req.Data, params); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		vote, xerr := ctrler.ReadVote(params.Voter, params.ProposalID)
		if xerr != nil {
			return nil, xerr
		}
		ret = vote
	case QUERY_COUNTER:
		st, xerr := ctrler.ReadState()
		if xerr != nil {
			return nil, xerr
		}
		ret = st
	case QUERY_PARAMS:
		ret = ctrler.Params()
	default:
		return nil, xerrors.ErrInvalidQueryPath
	}

	raw, err := json.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return raw, nil
}

// ReadAllProposals returns every committed proposal in the order of id.
func (ctrler *VotingCtrler) ReadAllProposals() ([]*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	var props []*proposal.Proposal
	if xerr := ctrler.proposalLedger.IterateReadAllItems(func(prop *proposal.Proposal) xerrors.XError {
		props = append(props, prop)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	return props, nil
}

// ReadState returns the committed proposal counter.
func (ctrler *VotingCtrler) ReadState() (*proposal.VotingState, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	st, xerr := ctrler.stateLedger.Read(proposal.StateKey())
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return &proposal.VotingState{}, nil
		}
		return nil, xerr
	}
	return st, nil
}
