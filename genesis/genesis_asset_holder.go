package genesis

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/crypto"
)

// GenesisAssetHolder is an account funded at genesis.
// Voters need free balance to reserve the cost of their votes.
type GenesisAssetHolder struct {
	Address types.Address
	Balance *uint256.Int
}

func NewGenesisAssetHolder(addr types.Address, bal *uint256.Int) *GenesisAssetHolder {
	return &GenesisAssetHolder{
		Address: addr,
		Balance: bal,
	}
}

func (gh *GenesisAssetHolder) MarshalJSON() ([]byte, error) {
	tm := &struct {
		Address types.Address `json:"address"`
		Balance string        `json:"balance"`
	}{
		Address: gh.Address,
		Balance: gh.Balance.Dec(),
	}

	return json.Marshal(tm)
}

func (gh *GenesisAssetHolder) UnmarshalJSON(bz []byte) error {
	tm := &struct {
		Address types.Address `json:"address"`
		Balance string        `json:"balance"`
	}{}

	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}

	bal, err := uint256.FromDecimal(tm.Balance)
	if err != nil {
		return err
	}

	gh.Address = tm.Address
	gh.Balance = bal

	return nil
}

func (gh *GenesisAssetHolder) Hash() []byte {
	hasher := crypto.DefaultHasher()
	_, _ = hasher.Write(gh.Address[:])
	_, _ = hasher.Write(gh.Balance.Bytes())
	return hasher.Sum(nil)
}

var _ json.Marshaler = (*GenesisAssetHolder)(nil)
var _ json.Unmarshaler = (*GenesisAssetHolder)(nil)
