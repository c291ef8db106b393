package voting

import (
	"github.com/holiman/uint256"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"strconv"
)

// CastVote records the first vote of the caller on a proposal and reserves its cost, Amount^2.
func (ctrler *VotingCtrler) CastVote(ctx *ctrlertypes.TrxContext, id proposal.ProposalID, d proposal.Decision) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	voter := ctx.Caller.Address
	if !ctrler.isRegistered(voter, ctx.Exec) {
		return xerrors.ErrVoterIsNotRegistered
	}
	prop, xerr := ctrler.checkVotable(ctx, id)
	if xerr != nil {
		return xerr
	}
	if _, xerr := ctrler.getVote(voter, id, ctx.Exec); xerr == nil {
		return xerrors.ErrVoteAlreadyCasted
	} else if xerr.Code() != xerrors.ErrCodeVoteNotFound {
		return xerr
	}
	if d.Amount == 0 {
		return xerrors.ErrInvalidVoteAmount
	}
	cost, xerr := d.CostAmount()
	if xerr != nil {
		return xerr
	}
	if xerr := prop.AddTally(d); xerr != nil {
		return xerr
	}

	if xerr := ctx.BalanceHandler.Reserve(voter, cost, ctx.Exec); xerr != nil {
		return xerr
	}

	if xerr := ctrler.setVote(proposal.NewVote(voter, id, d), ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventVoteCasted,
		attrProposalID(id),
		attrWho(voter),
		attr(EVENT_ATTR_DECISION, d.String()),
	))
	ctrler.logger.Debug("vote casted", "id", id, "voter", voter, "decision", d, "reserved", cost.Dec(), "exec", ctx.Exec)
	return nil
}

// UpdateVote replaces the decision of the caller's vote on an in-progress proposal.
// The reserved balance is adjusted by the difference of the costs.
// Switching to Nay is not allowed once the remaining time is below the removal threshold.
func (ctrler *VotingCtrler) UpdateVote(ctx *ctrlertypes.TrxContext, id proposal.ProposalID, d proposal.Decision) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	voter := ctx.Caller.Address
	if !ctrler.isRegistered(voter, ctx.Exec) {
		return xerrors.ErrVoterIsNotRegistered
	}
	prop, xerr := ctrler.checkVotable(ctx, id)
	if xerr != nil {
		return xerr
	}
	vote, xerr := ctrler.getVote(voter, id, ctx.Exec)
	if xerr != nil {
		return xerr
	}

	prev := vote.Decision
	prop.SubTally(prev)

	if d.IsNay() && prop.RemainingTime(ctx.Now()) < ctrler.params.RemovalThresholdBlocks() {
		return xerrors.ErrPassedRemovalThreshold
	}
	if d.Amount == 0 {
		return xerrors.ErrInvalidUpdateAmount
	}
	if xerr := prop.AddTally(d); xerr != nil {
		return xerr
	}

	prevCost, xerr := prev.CostAmount()
	if xerr != nil {
		return xerr
	}
	newCost, xerr := d.CostAmount()
	if xerr != nil {
		return xerr
	}
	switch newCost.Cmp(prevCost) {
	case 1:
		diff := new(uint256.Int).Sub(newCost, prevCost)
		if xerr := ctx.BalanceHandler.Reserve(voter, diff, ctx.Exec); xerr != nil {
			return xerr
		}
	case -1:
		diff := new(uint256.Int).Sub(prevCost, newCost)
		if xerr := ctx.BalanceHandler.Unreserve(voter, diff, ctx.Exec); xerr != nil {
			return xerr
		}
	}

	vote.Decision = d
	vote.Locked = true
	if xerr := ctrler.setVote(vote, ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventVoteCasted,
		attrProposalID(id),
		attrWho(voter),
		attr(EVENT_ATTR_PREVIOUS, prev.String()),
		attr(EVENT_ATTR_NEW, d.String()),
	))
	ctrler.logger.Debug("vote updated", "id", id, "voter", voter, "previous", prev, "new", d, "exec", ctx.Exec)
	return nil
}

// CancelVote removes the caller's vote and returns its cost to the free balance.
// The vote can be canceled until the end time (inclusive) unless the remaining
// time is below the removal threshold.
func (ctrler *VotingCtrler) CancelVote(ctx *ctrlertypes.TrxContext, id proposal.ProposalID) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	voter := ctx.Caller.Address
	prop, xerr := ctrler.getProposal(id, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	vote, xerr := ctrler.getVote(voter, id, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	now := ctx.Now()
	if !(prop.IsInProgress() && now <= prop.EndTime) {
		return xerrors.ErrProposalAlreadyEnded.Wrapf("status: %v, end time: %v, now: %v", prop.Status, prop.EndTime, now)
	}
	if prop.RemainingTime(now) < ctrler.params.RemovalThresholdBlocks() {
		return xerrors.ErrPassedRemovalThreshold
	}

	prop.SubTally(vote.Decision)
	cost, xerr := vote.Decision.CostAmount()
	if xerr != nil {
		return xerr
	}

	if xerr := ctx.BalanceHandler.Unreserve(voter, cost, ctx.Exec); xerr != nil {
		return xerr
	}

	if xerr := ctrler.delVote(vote, ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventVoteCanceled,
		attrProposalID(id),
		attrWho(voter),
		attr(EVENT_ATTR_DECISION, vote.Decision.String()),
	))
	ctrler.logger.Debug("vote canceled", "id", id, "voter", voter, "unreserved", cost.Dec(), "exec", ctx.Exec)
	return nil
}

// UnlockBalance returns the cost of the caller's vote on a resolved or canceled proposal.
// It succeeds at most once per vote.
func (ctrler *VotingCtrler) UnlockBalance(ctx *ctrlertypes.TrxContext, id proposal.ProposalID) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	voter := ctx.Caller.Address
	prop, xerr := ctrler.getProposal(id, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	if !prop.Status.IsTerminal() {
		return xerrors.ErrProposalInProgress
	}
	vote, xerr := ctrler.getVote(voter, id, ctx.Exec)
	if xerr != nil {
		return xerr
	}
	if !vote.Locked {
		return xerrors.ErrBalanceAlreadyUnlocked
	}
	cost, xerr := vote.Cost()
	if xerr != nil {
		return xerr
	}
	amt := uint256.NewInt(uint64(cost))

	if xerr := ctx.BalanceHandler.Unreserve(voter, amt, ctx.Exec); xerr != nil {
		return xerr
	}

	vote.Locked = false
	if xerr := ctrler.setVote(vote, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventBalanceUnlocked,
		attrProposalID(id),
		attrWho(voter),
		attr(EVENT_ATTR_AMOUNT, strconv.FormatUint(uint64(cost), 10)),
	))
	ctrler.logger.Debug("balance unlocked", "id", id, "voter", voter, "amount", cost, "exec", ctx.Exec)
	return nil
}

// checkVotable returns a copy of the proposal when it accepts votes at ctx.Now().
func (ctrler *VotingCtrler) checkVotable(ctx *ctrlertypes.TrxContext, id proposal.ProposalID) (*proposal.Proposal, xerrors.XError) {
	prop, xerr := ctrler.getProposal(id, ctx.Exec)
	if xerr != nil {
		return nil, xerr
	}
	if now := ctx.Now(); !(now < prop.EndTime && prop.IsInProgress()) {
		return nil, xerrors.ErrProposalAlreadyEnded.Wrapf("status: %v, end time: %v, now: %v", prop.Status, prop.EndTime, now)
	}
	return prop, nil
}

// ReadVote returns the committed vote of voter on the proposal id.
func (ctrler *VotingCtrler) ReadVote(voterAddr []byte, id proposal.ProposalID) (*proposal.Vote, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	vote, xerr := ctrler.voteLedger.Read(proposal.VoteKey(voterAddr, id))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrVoteNotFound
		}
		return nil, xerr
	}
	return vote, nil
}
