package ledger

import (
	"github.com/rigochain/rigo-vote/types/xerrors"
	"sync"
)

type FinalityLedger[T ILedgerItem] struct {
	SimpleLedger[T]
	finalityItems *memItems[T]

	mtx sync.RWMutex
}

func NewFinalityLedger[T ILedgerItem](name, backend, dbDir string, cacheSize int, cb func() T) (*FinalityLedger[T], xerrors.XError) {
	db, tree, xerr := openTree(name, backend, dbDir, cacheSize)
	if xerr != nil {
		return nil, xerr
	}
	return &FinalityLedger[T]{
		SimpleLedger: SimpleLedger[T]{
			db:          db,
			tree:        tree,
			cachedItems: newMemItems[T](),
			getNewItem:  cb,
		},
		finalityItems: newMemItems[T](),
	}, nil
}

func (ledger *FinalityLedger[T]) SetFinality(item T) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.finalityItems.setUpdatedItem(item)
	ledger.finalityItems.setGotItem(item)
	return nil
}

func (ledger *FinalityLedger[T]) GetFinality(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getFinality(key)
}

func (ledger *FinalityLedger[T]) getFinality(key LedgerKey) (T, xerrors.XError) {
	var emptyNil T

	if ledger.finalityItems.isRemoved(key) {
		return emptyNil, xerrors.ErrNotFoundResult
	}
	if item, ok := ledger.finalityItems.getGotItem(key); ok {
		return item, nil
	}

	if item, xerr := ledger.SimpleLedger.Read(key); xerr != nil {
		return emptyNil, xerr
	} else {
		ledger.finalityItems.setGotItem(item)
		return item, nil
	}
}

func (ledger *FinalityLedger[T]) DelFinality(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var emptyNil T

	if item, xerr := ledger.getFinality(key); xerr != nil {
		return emptyNil, xerr
	} else {
		ledger.finalityItems.delGotItem(key)
		ledger.finalityItems.delUpdatedItem(key)
		ledger.finalityItems.appendRemovedKey(key)
		return item, nil
	}
}

// Commit writes only the finality items and drops both caches.
// The check cache is rebuilt from the new version on the next access.
func (ledger *FinalityLedger[T]) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.SimpleLedger.mtx.Lock()
	defer ledger.SimpleLedger.mtx.Unlock()

	if xerr := ledger.SimpleLedger.writeItems(ledger.finalityItems); xerr != nil {
		return nil, -1, xerr
	}

	if r1, r2, err := ledger.tree.SaveVersion(); err != nil {
		return r1, r2, xerrors.From(err)
	} else {
		ledger.SimpleLedger.cachedItems.reset()
		ledger.finalityItems.reset()
		return r1, r2, nil
	}
}

var _ IFinalityLedger[ILedgerItem] = (*FinalityLedger[ILedgerItem])(nil)
