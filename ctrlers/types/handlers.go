package types

import (
	"github.com/holiman/uint256"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

type ITrxHandler interface {
	ValidateTrx(*TrxContext) xerrors.XError
	ExecuteTrx(*TrxContext) xerrors.XError
}

// IBalanceHandler moves funds between the free and the reserved balance of an account.
// The last argument selects the finality cache (true) or the check cache (false).
// A failed call changes nothing.
type IBalanceHandler interface {
	Reserve(types.Address, *uint256.Int, bool) xerrors.XError
	Unreserve(types.Address, *uint256.Int, bool) xerrors.XError
}

type IAccountHandler interface {
	IBalanceHandler
	FindAccount(types.Address, bool) *Account
}
