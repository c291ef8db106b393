package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"io"
	"sync"
)

// Account holds the free balance and the reserved balance of an address.
// Funds reserved for votes are moved from Balance to Reserved and back.
type Account struct {
	Address  types.Address `json:"address"`
	Nonce    uint64        `json:"nonce,string"`
	Balance  *uint256.Int  `json:"balance"`
	Reserved *uint256.Int  `json:"reserved"`

	mtx sync.RWMutex
}

type acctRLP struct {
	Address  types.Address
	Nonce    uint64
	Balance  []byte
	Reserved []byte
}

func NewAccount(addr types.Address) *Account {
	return &Account{
		Address:  addr,
		Nonce:    0,
		Balance:  uint256.NewInt(0),
		Reserved: uint256.NewInt(0),
	}
}

func (acct *Account) GetAddress() types.Address {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Address
}

func (acct *Account) AddNonce() {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	acct.Nonce++
}

func (acct *Account) GetNonce() uint64 {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Nonce
}

func (acct *Account) CheckNonce(n uint64) xerrors.XError {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if acct.Nonce+1 != n {
		return xerrors.ErrInvalidNonce
	}
	return nil
}

func (acct *Account) AddBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if _, overflow := new(uint256.Int).AddOverflow(acct.Balance, amt); overflow {
		return xerrors.ErrOverflow.Wrapf("balance %v + %v", acct.Balance.Dec(), amt.Dec())
	}
	_ = acct.Balance.Add(acct.Balance, amt)
	return nil
}

func (acct *Account) SubBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if amt.Cmp(acct.Balance) > 0 {
		return xerrors.ErrInsufficientFund
	}
	_ = acct.Balance.Sub(acct.Balance, amt)
	return nil
}

// Reserve moves amt from the free balance to the reserved balance.
func (acct *Account) Reserve(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if amt.Cmp(acct.Balance) > 0 {
		return xerrors.ErrInsufficientFund.Wrapf("free balance %v is less than %v", acct.Balance.Dec(), amt.Dec())
	}
	_ = acct.Balance.Sub(acct.Balance, amt)
	_ = acct.Reserved.Add(acct.Reserved, amt)
	return nil
}

// Unreserve moves amt from the reserved balance back to the free balance.
func (acct *Account) Unreserve(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if amt.Cmp(acct.Reserved) > 0 {
		return xerrors.ErrInsufficientFund.Wrapf("reserved balance %v is less than %v", acct.Reserved.Dec(), amt.Dec())
	}
	_ = acct.Reserved.Sub(acct.Reserved, amt)
	if _, overflow := new(uint256.Int).AddOverflow(acct.Balance, amt); overflow {
		return xerrors.ErrOverflow.Wrapf("balance %v + %v", acct.Balance.Dec(), amt.Dec())
	}
	_ = acct.Balance.Add(acct.Balance, amt)
	return nil
}

func (acct *Account) GetBalance() *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return new(uint256.Int).Set(acct.Balance)
}

func (acct *Account) GetReserved() *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return new(uint256.Int).Set(acct.Reserved)
}

func (acct *Account) CheckBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if amt.Cmp(acct.Balance) > 0 {
		return xerrors.ErrInsufficientFund
	}
	return nil
}

func (acct *Account) Clone() *Account {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return &Account{
		Address:  append(types.Address(nil), acct.Address...),
		Nonce:    acct.Nonce,
		Balance:  new(uint256.Int).Set(acct.Balance),
		Reserved: new(uint256.Int).Set(acct.Reserved),
	}
}

func (acct *Account) Key() ledger.LedgerKey {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Address.Array32()
}

func (acct *Account) EncodeRLP(w io.Writer) error {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return rlp.Encode(w, &acctRLP{
		Address:  acct.Address,
		Nonce:    acct.Nonce,
		Balance:  acct.Balance.Bytes(),
		Reserved: acct.Reserved.Bytes(),
	})
}

func (acct *Account) DecodeRLP(s *rlp.Stream) error {
	r := &acctRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}

	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	acct.Address = r.Address
	acct.Nonce = r.Nonce
	acct.Balance = new(uint256.Int).SetBytes(r.Balance)
	acct.Reserved = new(uint256.Int).SetBytes(r.Reserved)
	return nil
}

func (acct *Account) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(acct)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (acct *Account) Decode(d []byte) xerrors.XError {
	if err := rlp.DecodeBytes(d, acct); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Account)(nil)
var _ rlp.Encoder = (*Account)(nil)
var _ rlp.Decoder = (*Account)(nil)
