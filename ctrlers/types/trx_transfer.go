package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"io"
)

// TrxPayloadTransfer moves Amount of the free balance of the sender to To.
// An account is created for To when it has none.
type TrxPayloadTransfer struct {
	To     types.Address `json:"to"`
	Amount *uint256.Int  `json:"amount"`
}

type transferRLP struct {
	To     types.Address
	Amount []byte
}

func (tx *TrxPayloadTransfer) Type() int32 {
	return TRX_TRANSFER
}

func (tx *TrxPayloadTransfer) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadTransfer)
	if !ok {
		return false
	}
	if bytes.Compare(tx.To, _tx0.To) != 0 {
		return false
	}
	if tx.Amount == nil || _tx0.Amount == nil {
		return tx.Amount == _tx0.Amount
	}
	return tx.Amount.Eq(_tx0.Amount)
}

func (tx *TrxPayloadTransfer) EncodeRLP(w io.Writer) error {
	var amt []byte
	if tx.Amount != nil {
		amt = tx.Amount.Bytes()
	}
	return rlp.Encode(w, &transferRLP{
		To:     tx.To,
		Amount: amt,
	})
}

func (tx *TrxPayloadTransfer) DecodeRLP(s *rlp.Stream) error {
	r := &transferRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}
	tx.To = r.To
	tx.Amount = new(uint256.Int).SetBytes(r.Amount)
	return nil
}

var _ ITrxPayload = (*TrxPayloadTransfer)(nil)
var _ rlp.Encoder = (*TrxPayloadTransfer)(nil)
var _ rlp.Decoder = (*TrxPayloadTransfer)(nil)
