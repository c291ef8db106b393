package node

import (
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

// TrxExecutor runs a tx through the handlers set in its context.
// Txs are executed one by one in the order of the block,
// because votes on the same proposal depend on each other.
type TrxExecutor struct {
	logger log.Logger
}

func NewTrxExecutor(logger log.Logger) *TrxExecutor {
	return &TrxExecutor{
		logger: logger.With("module", "rigo_TrxExecutor"),
	}
}

func (txe *TrxExecutor) ExecuteSync(ctx *ctrlertypes.TrxContext) xerrors.XError {
	xerr := validateTrx(ctx)
	if xerr == nil {
		xerr = runTrx(ctx)
	}
	if ctx.Callback != nil {
		ctx.Callback(ctx, xerr)
	}
	if xerr != nil {
		txe.logger.Debug("fail to execute tx", "txhash", ctx.TxHash, "type", ctx.Tx.TypeString(), "exec", ctx.Exec, "error", xerr)
	}
	return xerr
}

func validateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := commonValidation(ctx); xerr != nil {
		return xerr
	}
	if xerr := ctx.TrxAcctHandler.ValidateTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	if xerr := ctx.TrxVotingHandler.ValidateTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	return nil
}

func commonValidation(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if ctx.Caller == nil || len(ctx.SenderPubKey) == 0 {
		return xerrors.ErrInvalidTrx.Wrapf("the sender is not authenticated")
	}
	if ctx.BalanceHandler == nil {
		return xerrors.ErrInvalidTrx.Wrapf("no balance handler")
	}
	return nil
}

// runTrx executes the voting operation first.
// The nonce of the sender is increased only when the operation succeeds.
// A handler returning ErrUnknownTrxType leaves the tx to the others.
func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := ctx.TrxVotingHandler.ExecuteTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	if xerr := ctx.TrxAcctHandler.ExecuteTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	return nil
}
