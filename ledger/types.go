package ledger

import (
	"github.com/rigochain/rigo-vote/types/xerrors"
)

const LEDGERKEYSIZE = 32

type LedgerKey = [LEDGERKEYSIZE]byte

// ToLedgerKey pads or truncates s to LEDGERKEYSIZE bytes.
func ToLedgerKey(s []byte) LedgerKey {
	var ret LedgerKey
	n := len(s)
	if n > LEDGERKEYSIZE {
		n = LEDGERKEYSIZE
	}
	copy(ret[:], s[:n])
	return ret
}

type ILedgerItem interface {
	Key() LedgerKey
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type ILedger[T ILedgerItem] interface {
	Set(T) xerrors.XError
	Get(LedgerKey) (T, xerrors.XError)
	Del(LedgerKey) (T, xerrors.XError)
	Read(LedgerKey) (T, xerrors.XError)
	IterateReadAllItems(func(T) xerrors.XError) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}

// IFinalityLedger keeps two caches over the same tree.
// The check cache (Set/Get/Del) is used to validate txs in the mempool and
// the finality cache (SetFinality/GetFinality/DelFinality) is used when txs are
// executed in a block. Only the finality cache is written by Commit.
type IFinalityLedger[T ILedgerItem] interface {
	ILedger[T]
	SetFinality(T) xerrors.XError
	GetFinality(LedgerKey) (T, xerrors.XError)
	DelFinality(LedgerKey) (T, xerrors.XError)
}
