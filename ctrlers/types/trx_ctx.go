package types

import (
	"github.com/rigochain/rigo-vote/types"
	abytes "github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TrxContext is built once per tx. Exec is false in CheckTx and true in DeliverTx;
// every handler selects the check cache or the finality cache of its ledgers by it.
type TrxContext struct {
	Height    int64
	BlockTime int64
	TxHash    abytes.HexBytes
	Tx        *Trx
	TxIdx     int
	Exec      bool

	SenderPubKey []byte
	Caller       *types.Caller
	Events       []abcitypes.Event

	TrxAcctHandler   ITrxHandler
	TrxVotingHandler ITrxHandler
	BalanceHandler   IBalanceHandler

	Callback func(*TrxContext, xerrors.XError)
}

type NewTrxContextCb func(*TrxContext) xerrors.XError

func NewTrxContext(txbz []byte, height, btime int64, exec bool, cbfns ...NewTrxContextCb) (*TrxContext, xerrors.XError) {
	tx := &Trx{}
	if xerr := tx.Decode(txbz); xerr != nil {
		return nil, xerrors.ErrInvalidTrx.Wrap(xerr)
	}

	txctx := &TrxContext{
		Tx:        tx,
		TxHash:    abytes.HexBytes(tmtypes.Tx(txbz).Hash()),
		Height:    height,
		BlockTime: btime,
		Exec:      exec,
	}

	for _, fn := range cbfns {
		if err := fn(txctx); err != nil {
			return nil, err
		}
	}

	return txctx, nil
}

// Now is the current time seen by the controllers. It is the block height.
func (ctx *TrxContext) Now() int64 {
	return ctx.Height
}

func (ctx *TrxContext) AddEvent(evt abcitypes.Event) {
	ctx.Events = append(ctx.Events, evt)
}
