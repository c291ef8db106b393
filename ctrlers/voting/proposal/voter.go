package proposal

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
)

// Voter is an entry of the voter registry.
type Voter struct {
	Address      types.Address `json:"address"`
	RegisteredAt uint64        `json:"registeredAt"`
}

func NewVoter(addr types.Address, height int64) *Voter {
	return &Voter{
		Address:      addr,
		RegisteredAt: uint64(height),
	}
}

func VoterKey(addr types.Address) ledger.LedgerKey {
	return ledger.ToLedgerKey(addr)
}

func (v *Voter) Key() ledger.LedgerKey {
	return VoterKey(v.Address)
}

func (v *Voter) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (v *Voter) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, v); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Voter)(nil)
