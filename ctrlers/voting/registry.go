package voting

import (
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
)

// RegisterVoter adds addr to the voter registry. Only a privileged caller can do it.
func (ctrler *VotingCtrler) RegisterVoter(ctx *ctrlertypes.TrxContext, addr types.Address) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if !ctx.Caller.Privileged {
		return xerrors.ErrBadOrigin
	}
	if ctrler.isRegistered(addr, ctx.Exec) {
		return xerrors.ErrAlreadyRegistered.Wrapf("voter: %v", addr)
	}

	voter := proposal.NewVoter(append(types.Address(nil), addr...), ctx.Height)
	if xerr := ctrler.setVoter(voter, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AddEvent(newEvent(EventVoterRegistered, attrWho(addr)))
	ctrler.logger.Debug("voter registered", "voter", addr, "height", ctx.Height, "exec", ctx.Exec)
	return nil
}

// IsRegistered reads the committed voter registry.
func (ctrler *VotingCtrler) IsRegistered(addr types.Address) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	_, xerr := ctrler.voterLedger.Read(proposal.VoterKey(addr))
	return xerr == nil
}
