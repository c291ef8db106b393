package voting

import (
	"errors"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
	"math"
	"sync"
)

// VotingCtrler keeps the voter registry, the proposals, the votes and the proposal counter.
// Every ledger has a check cache used by CheckTx and a finality cache used by DeliverTx.
type VotingCtrler struct {
	params *ctrlertypes.VotingParams

	voterLedger    ledger.IFinalityLedger[*proposal.Voter]
	proposalLedger ledger.IFinalityLedger[*proposal.Proposal]
	voteLedger     ledger.IFinalityLedger[*proposal.Vote]
	stateLedger    ledger.IFinalityLedger[*proposal.VotingState]
	paramsLedger   ledger.IFinalityLedger[*ctrlertypes.VotingParams]

	logger log.Logger
	mtx    sync.RWMutex
}

func NewVotingCtrler(config *cfg.Config, logger log.Logger) (*VotingCtrler, xerrors.XError) {
	voterLedger, xerr := ledger.NewFinalityLedger[*proposal.Voter](
		"voters", config.DBBackend, config.DBDir(), 128,
		func() *proposal.Voter { return &proposal.Voter{} })
	if xerr != nil {
		return nil, xerr
	}
	proposalLedger, xerr := ledger.NewFinalityLedger[*proposal.Proposal](
		"proposals", config.DBBackend, config.DBDir(), 128,
		func() *proposal.Proposal { return &proposal.Proposal{} })
	if xerr != nil {
		return nil, xerr
	}
	voteLedger, xerr := ledger.NewFinalityLedger[*proposal.Vote](
		"votes", config.DBBackend, config.DBDir(), 128,
		func() *proposal.Vote { return &proposal.Vote{} })
	if xerr != nil {
		return nil, xerr
	}
	stateLedger, xerr := ledger.NewFinalityLedger[*proposal.VotingState](
		"voting_state", config.DBBackend, config.DBDir(), 1,
		func() *proposal.VotingState { return &proposal.VotingState{} })
	if xerr != nil {
		return nil, xerr
	}
	paramsLedger, xerr := ledger.NewFinalityLedger[*ctrlertypes.VotingParams](
		"voting_params", config.DBBackend, config.DBDir(), 1,
		func() *ctrlertypes.VotingParams { return &ctrlertypes.VotingParams{} })
	if xerr != nil {
		return nil, xerr
	}

	params, xerr := paramsLedger.Read(ctrlertypes.VotingParamsKey())
	if xerr != nil && !errors.Is(xerr, xerrors.ErrNotFoundResult) {
		return nil, xerr
	} else if params == nil {
		// replaced by InitLedger
		params = ctrlertypes.DefaultVotingParams()
	}

	return &VotingCtrler{
		params:         params,
		voterLedger:    voterLedger,
		proposalLedger: proposalLedger,
		voteLedger:     voteLedger,
		stateLedger:    stateLedger,
		paramsLedger:   paramsLedger,
		logger:         logger.With("module", "rigo_VotingCtrler"),
	}, nil
}

func (ctrler *VotingCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: VotingCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	if genAppState.VotingParams != nil {
		ctrler.params = genAppState.VotingParams
	}
	if xerr := ctrler.paramsLedger.SetFinality(ctrler.params); xerr != nil {
		return xerr
	}
	if xerr := ctrler.stateLedger.SetFinality(&proposal.VotingState{}); xerr != nil {
		return xerr
	}

	for _, addr := range genAppState.Voters {
		if ctrler.isRegistered(addr, true) {
			return xerrors.ErrInitChain.Wrap(xerrors.ErrAlreadyRegistered.Wrapf("voter: %v", addr))
		}
		if xerr := ctrler.voterLedger.SetFinality(proposal.NewVoter(append(types.Address(nil), addr...), 0)); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ctrler *VotingCtrler) Params() *ctrlertypes.VotingParams {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.params
}

func (ctrler *VotingCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if ctx.Caller == nil {
		return xerrors.ErrInvalidTrx.Wrapf("the caller is not authenticated")
	}

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_REGISTER_VOTER:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadRegisterVoter)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if len(payload.Voter) != types.AddrSize {
			return xerrors.ErrInvalidTrx.Wrapf("wrong voter address: %v", payload.Voter)
		}
	case ctrlertypes.TRX_MAKE_PROPOSAL:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadMakeProposal)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if len(payload.Content) != crypto.DefaultHasher().Size() {
			return xerrors.ErrInvalidTrx.Wrapf("wrong content hash: %v", payload.Content)
		}
		if payload.EndTime > math.MaxInt64 {
			return xerrors.ErrTimePeriodTooLow.Wrapf("end time is out of range")
		}
	case ctrlertypes.TRX_INCREASE_PROPOSAL_TIME:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadIncreaseProposalTime)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if payload.EndTime > math.MaxInt64 {
			return xerrors.ErrTimePeriodTooLow.Wrapf("end time is out of range")
		}
	case ctrlertypes.TRX_CANCEL_PROPOSAL:
		if _, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadCancelProposal); !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
	case ctrlertypes.TRX_VOTE:
		if _, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVote); !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
	case ctrlertypes.TRX_UPDATE_VOTE:
		if _, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadUpdateVote); !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
	case ctrlertypes.TRX_CANCEL_VOTE:
		if _, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadCancelVote); !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
	case ctrlertypes.TRX_FINISH_PROPOSAL:
		if _, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadFinishProposal); !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
	case ctrlertypes.TRX_UNLOCK_BALANCE:
		if _, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadUnlockBalance); !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
	case ctrlertypes.TRX_TRANSFER:
		return xerrors.ErrUnknownTrxType
	default:
		return xerrors.ErrInvalidTrxType
	}
	return nil
}

// ExecuteTrx runs the operation of ctx.Tx. It is called after ValidateTrx succeeds.
// Transfers are left to the account controller.
func (ctrler *VotingCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	switch payload := ctx.Tx.Payload.(type) {
	case *ctrlertypes.TrxPayloadRegisterVoter:
		return ctrler.RegisterVoter(ctx, payload.Voter)
	case *ctrlertypes.TrxPayloadMakeProposal:
		_, xerr := ctrler.MakeProposal(ctx, payload.Content, int64(payload.EndTime))
		return xerr
	case *ctrlertypes.TrxPayloadIncreaseProposalTime:
		return ctrler.IncreaseProposalTime(ctx, payload.ProposalID, int64(payload.EndTime))
	case *ctrlertypes.TrxPayloadCancelProposal:
		return ctrler.CancelProposal(ctx, payload.ProposalID)
	case *ctrlertypes.TrxPayloadVote:
		return ctrler.CastVote(ctx, payload.ProposalID, proposal.Decision{Aye: payload.Aye, Amount: payload.Amount})
	case *ctrlertypes.TrxPayloadUpdateVote:
		return ctrler.UpdateVote(ctx, payload.ProposalID, proposal.Decision{Aye: payload.Aye, Amount: payload.Amount})
	case *ctrlertypes.TrxPayloadCancelVote:
		return ctrler.CancelVote(ctx, payload.ProposalID)
	case *ctrlertypes.TrxPayloadFinishProposal:
		_, xerr := ctrler.FinishProposal(ctx, payload.ProposalID)
		return xerr
	case *ctrlertypes.TrxPayloadUnlockBalance:
		return ctrler.UnlockBalance(ctx, payload.ProposalID)
	case *ctrlertypes.TrxPayloadTransfer:
		return xerrors.ErrUnknownTrxType
	default:
		return xerrors.ErrInvalidTrxPayloadType
	}
}

// Commit saves all ledgers of the controller as one version.
func (ctrler *VotingCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.voterLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.proposalLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h2, v2, xerr := ctrler.voteLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h3, v3, xerr := ctrler.stateLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h4, v4, xerr := ctrler.paramsLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}

	if v0 != v1 || v1 != v2 || v2 != v3 || v3 != v4 {
		return nil, -1, xerrors.ErrCommit.Wrapf("error: VotingCtrler.Commit() has wrong version number - voters:%v, proposals:%v, votes:%v, state:%v, params:%v", v0, v1, v2, v3, v4)
	}
	return crypto.DefaultHash(h0, h1, h2, h3, h4), v0, nil
}

func (ctrler *VotingCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	closers := []struct {
		name string
		fn   func() xerrors.XError
	}{
		{"voterLedger", ctrler.voterLedger.Close},
		{"proposalLedger", ctrler.proposalLedger.Close},
		{"voteLedger", ctrler.voteLedger.Close},
		{"stateLedger", ctrler.stateLedger.Close},
		{"paramsLedger", ctrler.paramsLedger.Close},
	}
	for _, c := range closers {
		if xerr := c.fn(); xerr != nil {
			ctrler.logger.Error("fail to close ledger", "ledger", c.name, "error", xerr.Error())
		}
	}
	return nil
}

//
// ledger accessors
// `exec` selects the finality cache.

func (ctrler *VotingCtrler) isRegistered(addr types.Address, exec bool) bool {
	fn := ctrler.voterLedger.Get
	if exec {
		fn = ctrler.voterLedger.GetFinality
	}
	_, xerr := fn(proposal.VoterKey(addr))
	return xerr == nil
}

func (ctrler *VotingCtrler) setVoter(voter *proposal.Voter, exec bool) xerrors.XError {
	fn := ctrler.voterLedger.Set
	if exec {
		fn = ctrler.voterLedger.SetFinality
	}
	return fn(voter)
}

// getProposal returns a copy of the proposal so that it can be changed freely before setProposal.
func (ctrler *VotingCtrler) getProposal(id proposal.ProposalID, exec bool) (*proposal.Proposal, xerrors.XError) {
	fn := ctrler.proposalLedger.Get
	if exec {
		fn = ctrler.proposalLedger.GetFinality
	}
	prop, xerr := fn(proposal.ProposalKey(id))
	if xerr != nil {
		if errors.Is(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerrors.ErrProposalNotFound.Wrapf("proposal id: %v", id)
		}
		return nil, xerr
	}
	return prop.Clone(), nil
}

func (ctrler *VotingCtrler) setProposal(prop *proposal.Proposal, exec bool) xerrors.XError {
	fn := ctrler.proposalLedger.Set
	if exec {
		fn = ctrler.proposalLedger.SetFinality
	}
	return fn(prop)
}

// getVote returns a copy of the vote of voter on the proposal id.
func (ctrler *VotingCtrler) getVote(voter types.Address, id proposal.ProposalID, exec bool) (*proposal.Vote, xerrors.XError) {
	fn := ctrler.voteLedger.Get
	if exec {
		fn = ctrler.voteLedger.GetFinality
	}
	vote, xerr := fn(proposal.VoteKey(voter, id))
	if xerr != nil {
		if errors.Is(xerr, xerrors.ErrNotFoundResult) {
			return nil, xerrors.ErrVoteNotFound.Wrapf("voter: %v, proposal id: %v", voter, id)
		}
		return nil, xerr
	}
	return vote.Clone(), nil
}

func (ctrler *VotingCtrler) setVote(vote *proposal.Vote, exec bool) xerrors.XError {
	fn := ctrler.voteLedger.Set
	if exec {
		fn = ctrler.voteLedger.SetFinality
	}
	return fn(vote)
}

func (ctrler *VotingCtrler) delVote(vote *proposal.Vote, exec bool) xerrors.XError {
	fn := ctrler.voteLedger.Del
	if exec {
		fn = ctrler.voteLedger.DelFinality
	}
	_, xerr := fn(vote.Key())
	return xerr
}

func (ctrler *VotingCtrler) getState(exec bool) (*proposal.VotingState, xerrors.XError) {
	fn := ctrler.stateLedger.Get
	if exec {
		fn = ctrler.stateLedger.GetFinality
	}
	st, xerr := fn(proposal.StateKey())
	if xerr != nil {
		if errors.Is(xerr, xerrors.ErrNotFoundResult) {
			return &proposal.VotingState{}, nil
		}
		return nil, xerr
	}
	return &proposal.VotingState{LastProposalID: st.LastProposalID}, nil
}

func (ctrler *VotingCtrler) setState(st *proposal.VotingState, exec bool) xerrors.XError {
	fn := ctrler.stateLedger.Set
	if exec {
		fn = ctrler.stateLedger.SetFinality
	}
	return fn(st)
}

var _ ctrlertypes.ILedgerHandler = (*VotingCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*VotingCtrler)(nil)
