package voting

import (
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"strconv"
)

// MakeProposal creates a new proposal which ends at endTime and returns its id.
func (ctrler *VotingCtrler) MakeProposal(ctx *ctrlertypes.TrxContext, content bytes.HexBytes, endTime int64) (proposal.ProposalID, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctx.Now()
	if endTime <= now {
		return 0, xerrors.ErrTimePeriodTooLow.Wrapf("end time(%v) must be greater than now(%v)", endTime, now)
	}

	st, xerr := ctrler.getState(ctx.Exec)
	if xerr != nil {
		return 0, xerr
	}
	id, xerr := st.NextProposalID()
	if xerr != nil {
		return 0, xerr
	}

	prop := proposal.NewProposal(id, ctx.Caller.Address, append(bytes.HexBytes(nil), content...), endTime)
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return 0, xerr
	}
	st.LastProposalID = id
	if xerr := ctrler.setState(st, ctx.Exec); xerr != nil {
		return 0, xerr
	}

	ctx.AddEvent(newEvent(EventProposalSubmitted,
		attrProposalID(id),
		attrWho(ctx.Caller.Address),
		attr(EVENT_ATTR_END_TIME, strconv.FormatInt(endTime, 10)),
	))
	ctrler.logger.Debug("proposal submitted", "id", id, "proposer", ctx.Caller.Address, "endTime", endTime, "exec", ctx.Exec)
	return id, nil
}

// IncreaseProposalTime moves the end time of an in-progress proposal to newEndTime.
// Only the proposer can do it.
func (ctrler *VotingCtrler) IncreaseProposalTime(ctx *ctrlertypes.TrxContext, id proposal.ProposalID, newEndTime int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	prop, xerr := ctrler.getProposal(id, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	if !prop.IsProposer(ctx.Caller.Address) {
		return xerrors.ErrUnauthorized
	}
	if !prop.IsInProgress() {
		return xerrors.ErrProposalAlreadyEnded.Wrapf("status: %v", prop.Status)
	}
	now := ctx.Now()
	if newEndTime <= prop.EndTime || newEndTime <= now {
		return xerrors.ErrTimePeriodTooLow.Wrapf("new end time(%v) must be greater than the end time(%v) and now(%v)", newEndTime, prop.EndTime, now)
	}

	prop.EndTime = newEndTime
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventProposalUpdated,
		attrProposalID(id),
		attrWho(ctx.Caller.Address),
		attr(EVENT_ATTR_END_TIME, strconv.FormatInt(newEndTime, 10)),
	))
	ctrler.logger.Debug("proposal updated", "id", id, "endTime", newEndTime, "exec", ctx.Exec)
	return nil
}

// CancelProposal cancels an in-progress proposal before its end time.
// Only the proposer can do it. The votes stay locked until they are unlocked by each voter.
func (ctrler *VotingCtrler) CancelProposal(ctx *ctrlertypes.TrxContext, id proposal.ProposalID) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	prop, xerr := ctrler.getProposal(id, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	if !prop.IsProposer(ctx.Caller.Address) {
		return xerrors.ErrUnauthorized
	}
	if !prop.IsInProgress() {
		return xerrors.ErrProposalAlreadyEnded.Wrapf("status: %v", prop.Status)
	}
	if now := ctx.Now(); prop.EndTime <= now {
		return xerrors.ErrTimePeriodTooLow.Wrapf("end time(%v) has been reached at %v", prop.EndTime, now)
	}

	prop.Status = proposal.Canceled
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventProposalCanceled,
		attrProposalID(id),
		attrWho(ctx.Caller.Address),
	))
	ctrler.logger.Debug("proposal canceled", "id", id, "exec", ctx.Exec)
	return nil
}

// FinishProposal resolves a proposal whose end time has passed.
// Any registered voter can do it.
func (ctrler *VotingCtrler) FinishProposal(ctx *ctrlertypes.TrxContext, id proposal.ProposalID) (proposal.Status, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if !ctrler.isRegistered(ctx.Caller.Address, ctx.Exec) {
		return proposal.InProgress, xerrors.ErrVoterIsNotRegistered
	}
	prop, xerr := ctrler.getProposal(id, ctx.Exec)
	if xerr != nil {
		return proposal.InProgress, xerr
	}
	if now := ctx.Now(); !(prop.EndTime < now && prop.IsInProgress()) {
		return proposal.InProgress, xerrors.ErrProposalAlreadyEnded.Wrapf("status: %v, end time: %v, now: %v", prop.Status, prop.EndTime, now)
	}

	prop.Status = prop.Resolve()
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return proposal.InProgress, xerr
	}

	ctx.AddEvent(newEvent(EventProposalEnded,
		attrProposalID(id),
		attrWho(ctx.Caller.Address),
		attr(EVENT_ATTR_STATUS, prop.Status.String()),
	))
	ctrler.logger.Debug("proposal ended", "id", id, "status", prop.Status, "ayes", prop.Ayes, "nays", prop.Nays, "exec", ctx.Exec)
	return prop.Status, nil
}

// ReadProposal returns the committed proposal of id.
func (ctrler *VotingCtrler) ReadProposal(id proposal.ProposalID) (*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.proposalLedger.Read(proposal.ProposalKey(id))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrProposalNotFound
		}
		return nil, xerr
	}
	return prop, nil
}
