package proposal

import (
	"encoding/binary"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
)

// Vote is keyed by (voter, proposal id). Locked stays true until the
// reserved cost is returned to the voter by unlocking.
type Vote struct {
	Voter      types.Address `json:"voter"`
	ProposalID ProposalID    `json:"proposalId"`
	Decision   Decision      `json:"decision"`
	Locked     bool          `json:"locked"`
}

func NewVote(voter types.Address, id ProposalID, d Decision) *Vote {
	return &Vote{
		Voter:      voter,
		ProposalID: id,
		Decision:   d,
		Locked:     true,
	}
}

// VoteKey is the composite key: 20 bytes of the voter address followed by
// the big-endian proposal id.
func VoteKey(voter types.Address, id ProposalID) ledger.LedgerKey {
	var k ledger.LedgerKey
	copy(k[:types.AddrSize], voter)
	binary.BigEndian.PutUint32(k[types.AddrSize:types.AddrSize+4], id)
	return k
}

func (v *Vote) Key() ledger.LedgerKey {
	return VoteKey(v.Voter, v.ProposalID)
}

func (v *Vote) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (v *Vote) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, v); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (v *Vote) Clone() *Vote {
	return &Vote{
		Voter:      append(types.Address(nil), v.Voter...),
		ProposalID: v.ProposalID,
		Decision:   v.Decision,
		Locked:     v.Locked,
	}
}

// Cost is the amount reserved for this vote while it is locked.
func (v *Vote) Cost() (uint32, xerrors.XError) {
	return v.Decision.Cost()
}

var _ ledger.ILedgerItem = (*Vote)(nil)
