package proposal

import (
	"encoding/binary"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"io"
)

type ProposalID = uint32

type Proposal struct {
	ID       ProposalID     `json:"id"`
	Proposer types.Address  `json:"proposer"`
	Content  bytes.HexBytes `json:"content"`
	EndTime  int64          `json:"endTime"`
	Status   Status         `json:"status"`
	Ayes     uint32         `json:"ayes"`
	Nays     uint32         `json:"nays"`
}

type proposalRLP struct {
	ID       uint32
	Proposer []byte
	Content  []byte
	EndTime  uint64
	Status   uint8
	Ayes     uint32
	Nays     uint32
}

func NewProposal(id ProposalID, proposer types.Address, content bytes.HexBytes, endTime int64) *Proposal {
	return &Proposal{
		ID:       id,
		Proposer: proposer,
		Content:  content,
		EndTime:  endTime,
		Status:   InProgress,
	}
}

func ProposalKey(id ProposalID) ledger.LedgerKey {
	var k ledger.LedgerKey
	binary.BigEndian.PutUint32(k[:4], id)
	return k
}

func (prop *Proposal) Key() ledger.LedgerKey {
	return ProposalKey(prop.ID)
}

func (prop *Proposal) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &proposalRLP{
		ID:       prop.ID,
		Proposer: prop.Proposer,
		Content:  prop.Content,
		EndTime:  uint64(prop.EndTime),
		Status:   uint8(prop.Status),
		Ayes:     prop.Ayes,
		Nays:     prop.Nays,
	})
}

func (prop *Proposal) DecodeRLP(s *rlp.Stream) error {
	r := &proposalRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}
	prop.ID = r.ID
	prop.Proposer = r.Proposer
	prop.Content = r.Content
	prop.EndTime = int64(r.EndTime)
	prop.Status = Status(r.Status)
	prop.Ayes = r.Ayes
	prop.Nays = r.Nays
	return nil
}

func (prop *Proposal) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(prop)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (prop *Proposal) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, prop); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Proposal)(nil)
var _ rlp.Encoder = (*Proposal)(nil)
var _ rlp.Decoder = (*Proposal)(nil)

func (prop *Proposal) Clone() *Proposal {
	return &Proposal{
		ID:       prop.ID,
		Proposer: append(types.Address(nil), prop.Proposer...),
		Content:  append(bytes.HexBytes(nil), prop.Content...),
		EndTime:  prop.EndTime,
		Status:   prop.Status,
		Ayes:     prop.Ayes,
		Nays:     prop.Nays,
	}
}

func (prop *Proposal) IsInProgress() bool {
	return prop.Status == InProgress
}

func (prop *Proposal) IsProposer(addr types.Address) bool {
	return bytes.Compare(prop.Proposer, addr) == 0
}

// RemainingTime is the number of blocks left until EndTime at `now`.
// It is negative once EndTime has passed.
func (prop *Proposal) RemainingTime(now int64) int64 {
	return prop.EndTime - now
}

// AddTally adds the amount of d to the bucket matching its direction.
func (prop *Proposal) AddTally(d Decision) xerrors.XError {
	if d.IsAye() {
		sum := uint64(prop.Ayes) + uint64(d.Amount)
		if sum > uint64(^uint32(0)) {
			return xerrors.ErrOverflow.Wrapf("ayes of proposal %d", prop.ID)
		}
		prop.Ayes = uint32(sum)
	} else {
		sum := uint64(prop.Nays) + uint64(d.Amount)
		if sum > uint64(^uint32(0)) {
			return xerrors.ErrOverflow.Wrapf("nays of proposal %d", prop.ID)
		}
		prop.Nays = uint32(sum)
	}
	return nil
}

// SubTally removes the amount of d from the bucket matching its direction.
// The bucket saturates at zero.
func (prop *Proposal) SubTally(d Decision) {
	if d.IsAye() {
		prop.Ayes = saturatingSub(prop.Ayes, d.Amount)
	} else {
		prop.Nays = saturatingSub(prop.Nays, d.Amount)
	}
}

// Resolve returns the terminal status the current tallies lead to.
func (prop *Proposal) Resolve() Status {
	switch {
	case prop.Ayes > prop.Nays:
		return Passed
	case prop.Ayes < prop.Nays:
		return Rejected
	default:
		return Tied
	}
}

func saturatingSub(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
