package account

import (
	"bytes"
	"fmt"
	"github.com/holiman/uint256"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

type AcctCtrler struct {
	acctLedger ledger.IFinalityLedger[*ctrlertypes.Account]

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewAcctCtrler(config *cfg.Config, logger tmlog.Logger) (*AcctCtrler, xerrors.XError) {
	if acctLedger, xerr := ledger.NewFinalityLedger[*ctrlertypes.Account](
		"accounts", config.DBBackend, config.DBDir(), 128,
		func() *ctrlertypes.Account { return &ctrlertypes.Account{} },
	); xerr != nil {
		return nil, xerr
	} else {
		return &AcctCtrler{
			acctLedger: acctLedger,
			logger:     logger.With("module", "rigo_AcctCtrler"),
		}, nil
	}
}

func (ctrler *AcctCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: AcctCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	for _, holder := range genAppState.AssetHolders {
		if ctrler.findAccount(holder.Address, true) != nil {
			return xerrors.ErrInitChain.Wrapf("duplicated asset holder: %v", holder.Address)
		}
		acct := ctrlertypes.NewAccount(append(types.Address(nil), holder.Address...))
		if xerr := acct.AddBalance(holder.Balance); xerr != nil {
			return xerrors.ErrInitChain.Wrap(xerr)
		}
		if xerr := ctrler.setAccountCommittable(acct, true); xerr != nil {
			return xerr
		}
	}
	return nil
}

// ValidateTrx checks that the nonce of tx is the next one of the sender.
// A sender without an account is treated as a new account with nonce 0.
// For a transfer, the free balance of the sender must cover the amount.
func (ctrler *AcctCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	sender := ctrler.findAccount(ctx.Tx.From, ctx.Exec)
	if sender == nil {
		sender = ctrlertypes.NewAccount(ctx.Tx.From)
	}
	if xerr := sender.CheckNonce(ctx.Tx.Nonce); xerr != nil {
		return xerr.Wrap(fmt.Errorf("invalid nonce - expected: %v, actual:%v, address: %v, txhash: %X", sender.GetNonce()+1, ctx.Tx.Nonce, sender.Address, ctx.TxHash))
	}

	if ctx.Tx.GetType() == ctrlertypes.TRX_TRANSFER {
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadTransfer)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if len(payload.To) != types.AddrSize {
			return xerrors.ErrInvalidTrx.Wrapf("wrong recipient address: %v", payload.To)
		}
		if payload.Amount == nil || payload.Amount.IsZero() {
			return xerrors.ErrInvalidTrx.Wrapf("no amount to transfer")
		}
		if xerr := sender.CheckBalance(payload.Amount); xerr != nil {
			return xerr
		}
	}
	return nil
}

// ExecuteTrx moves the amount of a transfer and increases the nonce of the sender.
// It runs after the voting handler so a failed tx leaves the nonce unchanged.
func (ctrler *AcctCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	sender := ctrler.findOrNewAccount(ctx.Tx.From, ctx.Exec)
	if payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadTransfer); ok {
		if xerr := ctrler.transfer(sender, payload.To, payload.Amount, ctx.Exec); xerr != nil {
			return xerr
		}
	}
	sender.AddNonce()
	return ctrler.setAccountCommittable(sender, ctx.Exec)
}

// transfer moves amt from the free balance of sender to the account of to.
// The sender is not saved here.
func (ctrler *AcctCtrler) transfer(sender *ctrlertypes.Account, to types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	if xerr := sender.CheckBalance(amt); xerr != nil {
		return xerr
	}
	if bytes.Equal(sender.Address, to) {
		return nil
	}

	receiver := ctrler.findOrNewAccount(to, exec)
	if xerr := sender.SubBalance(amt); xerr != nil {
		return xerr
	}
	if xerr := receiver.AddBalance(amt); xerr != nil {
		_ = sender.AddBalance(amt) // refund
		return xerr
	}
	if xerr := ctrler.setAccountCommittable(receiver, exec); xerr != nil {
		return xerr
	}

	ctrler.logger.Debug("transfer", "from", sender.Address, "to", to, "amount", amt.Dec(), "exec", exec)
	return nil
}

// Reserve moves amt of the free balance of addr to its reserved balance.
func (ctrler *AcctCtrler) Reserve(addr types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	acct := ctrler.findAccount(addr, exec)
	if acct == nil {
		return xerrors.ErrInsufficientFund.Wrap(xerrors.ErrNotFoundAccount)
	}
	if xerr := acct.Reserve(amt); xerr != nil {
		return xerr
	}

	ctrler.logger.Debug("reserve", "address", addr, "amount", amt.Dec(), "exec", exec)
	return ctrler.setAccountCommittable(acct, exec)
}

// Unreserve returns amt of the reserved balance of addr to its free balance.
func (ctrler *AcctCtrler) Unreserve(addr types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	acct := ctrler.findAccount(addr, exec)
	if acct == nil {
		return xerrors.ErrNotFoundAccount
	}
	if xerr := acct.Unreserve(amt); xerr != nil {
		return xerr
	}

	ctrler.logger.Debug("unreserve", "address", addr, "amount", amt.Dec(), "exec", exec)
	return ctrler.setAccountCommittable(acct, exec)
}

func (ctrler *AcctCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.acctLedger.Commit()
}

func (ctrler *AcctCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctLedger != nil {
		if xerr := ctrler.acctLedger.Close(); xerr != nil {
			ctrler.logger.Error("acctLedger.Close() returns error", "error", xerr.Error())
		}
		ctrler.acctLedger = nil
	}
	return nil
}

func (ctrler *AcctCtrler) findAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	k := ledger.ToLedgerKey(addr)

	fn := ctrler.acctLedger.Get
	if exec {
		fn = ctrler.acctLedger.GetFinality
	}

	if acct, xerr := fn(k); xerr != nil {
		return nil
	} else {
		return acct
	}
}

// findOrNewAccount returns a zero balance account for addr when it has none.
// The new account is not saved until the caller sets it.
func (ctrler *AcctCtrler) findOrNewAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	if acct := ctrler.findAccount(addr, exec); acct != nil {
		return acct
	}
	return ctrlertypes.NewAccount(append(types.Address(nil), addr...))
}

func (ctrler *AcctCtrler) FindOrNewAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.findOrNewAccount(addr, exec)
}

func (ctrler *AcctCtrler) FindAccount(addr types.Address, exec bool) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.findAccount(addr, exec)
}

// ReadAccount returns the committed account of addr or nil.
func (ctrler *AcctCtrler) ReadAccount(addr types.Address) *ctrlertypes.Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if acct, xerr := ctrler.acctLedger.Read(ledger.ToLedgerKey(addr)); xerr != nil {
		return nil
	} else {
		return acct
	}
}

func (ctrler *AcctCtrler) setAccountCommittable(acct *ctrlertypes.Account, exec bool) xerrors.XError {
	fn := ctrler.acctLedger.Set
	if exec {
		fn = ctrler.acctLedger.SetFinality
	}

	return fn(acct)
}

var _ ctrlertypes.ILedgerHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.IAccountHandler = (*AcctCtrler)(nil)
