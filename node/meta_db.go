package node

import (
	"encoding/binary"
	"github.com/rigochain/rigo-vote/types"
	tmdb "github.com/tendermint/tm-db"
	"sync"
)

const (
	keyChainID      = "ci"
	keyRootAddress  = "ra"
	keyBlockHeight  = "bh"
	keyBlockAppHash = "ah"
)

// MetaDB keeps the values that the ledgers do not: the chain id, the root
// address of the genesis and the height and app hash of the last block.
type MetaDB struct {
	db tmdb.DB

	mtx   sync.RWMutex
	cache map[string][]byte
}

func openMetaDB(name, backend, dir string) (*MetaDB, error) {
	// The returned 'db' instance is safe in concurrent use.
	db, err := tmdb.NewDB(name, tmdb.BackendType(backend), dir)
	if err != nil {
		return nil, err
	}

	return &MetaDB{
		db:    db,
		cache: make(map[string][]byte),
	}, nil
}

func (stdb *MetaDB) Close() error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	stdb.cache = map[string][]byte{}
	return stdb.db.Close()
}

func (stdb *MetaDB) ChainID() string {
	v := stdb.get(keyChainID)
	if v == nil {
		return ""
	}
	return string(v)
}

func (stdb *MetaDB) PutChainID(chainId string) error {
	return stdb.put(keyChainID, []byte(chainId))
}

func (stdb *MetaDB) RootAddress() types.Address {
	return stdb.get(keyRootAddress)
}

func (stdb *MetaDB) PutRootAddress(addr types.Address) error {
	return stdb.put(keyRootAddress, addr)
}

func (stdb *MetaDB) LastBlockHeight() int64 {
	v := stdb.get(keyBlockHeight)
	if v == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}

func (stdb *MetaDB) PutLastBlockHeight(bh int64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(bh))
	return stdb.put(keyBlockHeight, v)
}

func (stdb *MetaDB) LastBlockAppHash() []byte {
	return stdb.get(keyBlockAppHash)
}

func (stdb *MetaDB) PutLastBlockAppHash(v []byte) error {
	return stdb.put(keyBlockAppHash, v)
}

func (stdb *MetaDB) putCache(k string, v []byte) {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	stdb.cache[k] = v
}

func (stdb *MetaDB) getCache(k string) []byte {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.cache[k]
}

func (stdb *MetaDB) get(k string) []byte {
	if v := stdb.getCache(k); v != nil {
		return v
	}

	if v, err := stdb.db.Get([]byte(k)); err == nil && v != nil {
		stdb.putCache(k, v)
		return v
	}

	return nil
}

func (stdb *MetaDB) put(k string, v []byte) error {
	v = append([]byte(nil), v...)
	if err := stdb.db.SetSync([]byte(k), v); err != nil {
		return err
	}
	stdb.putCache(k, v)
	return nil
}
