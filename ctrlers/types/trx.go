package types

import (
	"crypto/ecdsa"
	"fmt"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"io"
	"time"
)

const (
	TRX_REGISTER_VOTER int32 = 1 + iota
	TRX_MAKE_PROPOSAL
	TRX_INCREASE_PROPOSAL_TIME
	TRX_CANCEL_PROPOSAL
	TRX_VOTE
	TRX_UPDATE_VOTE
	TRX_CANCEL_VOTE
	TRX_FINISH_PROPOSAL
	TRX_UNLOCK_BALANCE
	TRX_TRANSFER
)

const (
	EVENT_ATTR_TXSTATUS = "status"
	EVENT_ATTR_TXTYPE   = "type"
	EVENT_ATTR_TXSENDER = "sender"
)

type trxRLP struct {
	Version uint64
	Time    uint64
	Nonce   uint64
	From    types.Address
	Type    uint64
	Payload bytes.HexBytes
	Sig     bytes.HexBytes
}

type ITrxPayload interface {
	Type() int32
	Equal(ITrxPayload) bool
}

type Trx struct {
	Version uint32         `json:"version,omitempty"`
	Time    int64          `json:"time"`
	Nonce   uint64         `json:"nonce"`
	From    types.Address  `json:"from"`
	Type    int32          `json:"type"`
	Payload ITrxPayload    `json:"payload,omitempty"`
	Sig     bytes.HexBytes `json:"sig"`
}

func NewTrx(ver uint32, from types.Address, nonce uint64, payload ITrxPayload) *Trx {
	return &Trx{
		Version: ver,
		Time:    time.Now().Round(0).UTC().UnixNano(),
		Nonce:   nonce,
		From:    from,
		Type:    payload.Type(),
		Payload: payload,
	}
}

func (tx *Trx) Equal(_tx *Trx) bool {
	if tx.Version != _tx.Version {
		return false
	}
	if tx.Time != _tx.Time {
		return false
	}
	if tx.Nonce != _tx.Nonce {
		return false
	}
	if tx.From.Compare(_tx.From) != 0 {
		return false
	}
	if tx.Type != _tx.Type {
		return false
	}
	if bytes.Compare(tx.Sig, _tx.Sig) != 0 {
		return false
	}
	if tx.Payload != nil {
		return tx.Payload.Equal(_tx.Payload)
	} else if _tx.Payload != nil {
		return false
	}
	return true
}

func (tx *Trx) EncodeRLP(w io.Writer) error {
	var payload bytes.HexBytes
	if tx.Payload != nil {
		_tmp, err := rlp.EncodeToBytes(tx.Payload)
		if err != nil {
			return err
		}
		payload = _tmp
	}

	return rlp.Encode(w, &trxRLP{
		Version: uint64(tx.Version),
		Time:    uint64(tx.Time),
		Nonce:   tx.Nonce,
		From:    tx.From,
		Type:    uint64(tx.Type),
		Payload: payload,
		Sig:     tx.Sig,
	})
}

func (tx *Trx) DecodeRLP(s *rlp.Stream) error {
	rtx := &trxRLP{}
	if err := s.Decode(rtx); err != nil {
		return err
	}

	tx.Version = uint32(rtx.Version)
	tx.Time = int64(rtx.Time)
	tx.Nonce = rtx.Nonce
	tx.From = rtx.From
	tx.Type = int32(rtx.Type)
	tx.Sig = rtx.Sig

	payload, xerr := newTrxPayload(tx.Type)
	if xerr != nil {
		return xerr
	}
	if len(rtx.Payload) > 0 {
		if err := rlp.DecodeBytes(rtx.Payload, payload); err != nil {
			return err
		}
	}
	tx.Payload = payload
	return nil
}

var _ rlp.Encoder = (*Trx)(nil)
var _ rlp.Decoder = (*Trx)(nil)

func newTrxPayload(txtype int32) (ITrxPayload, xerrors.XError) {
	switch txtype {
	case TRX_REGISTER_VOTER:
		return &TrxPayloadRegisterVoter{}, nil
	case TRX_MAKE_PROPOSAL:
		return &TrxPayloadMakeProposal{}, nil
	case TRX_INCREASE_PROPOSAL_TIME:
		return &TrxPayloadIncreaseProposalTime{}, nil
	case TRX_CANCEL_PROPOSAL:
		return &TrxPayloadCancelProposal{}, nil
	case TRX_VOTE:
		return &TrxPayloadVote{}, nil
	case TRX_UPDATE_VOTE:
		return &TrxPayloadUpdateVote{}, nil
	case TRX_CANCEL_VOTE:
		return &TrxPayloadCancelVote{}, nil
	case TRX_FINISH_PROPOSAL:
		return &TrxPayloadFinishProposal{}, nil
	case TRX_UNLOCK_BALANCE:
		return &TrxPayloadUnlockBalance{}, nil
	case TRX_TRANSFER:
		return &TrxPayloadTransfer{}, nil
	default:
		return nil, xerrors.ErrInvalidTrxPayloadType
	}
}

func (tx *Trx) GetType() int32 {
	return tx.Type
}

func (tx *Trx) TypeString() string {
	switch tx.GetType() {
	case TRX_REGISTER_VOTER:
		return "register_voter"
	case TRX_MAKE_PROPOSAL:
		return "make_proposal"
	case TRX_INCREASE_PROPOSAL_TIME:
		return "increase_proposal_time"
	case TRX_CANCEL_PROPOSAL:
		return "cancel_proposal"
	case TRX_VOTE:
		return "vote"
	case TRX_UPDATE_VOTE:
		return "update_vote"
	case TRX_CANCEL_VOTE:
		return "cancel_vote"
	case TRX_FINISH_PROPOSAL:
		return "finish_proposal"
	case TRX_UNLOCK_BALANCE:
		return "unlock_balance"
	case TRX_TRANSFER:
		return "transfer"
	}
	return ""
}

func (tx *Trx) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *Trx) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func PreImageToSignTrx(tx *Trx, chainId string) ([]byte, xerrors.XError) {
	sig := tx.Sig
	tx.Sig = nil
	defer func() { tx.Sig = sig }()

	bz, xerr := tx.Encode()
	if xerr != nil {
		return nil, xerr
	}
	prefix := fmt.Sprintf("\x19RIGO(%s) Signed Message:\n%d", chainId, len(bz))
	return append([]byte(prefix), bz...), nil
}

// SignTrx sets tx.Sig to the signature of prvKey over the pre-image of tx.
func SignTrx(tx *Trx, prvKey *ecdsa.PrivateKey, chainId string) xerrors.XError {
	preimg, xerr := PreImageToSignTrx(tx, chainId)
	if xerr != nil {
		return xerr
	}
	sig, err := crypto.Sign(preimg, prvKey)
	if err != nil {
		return xerrors.From(err)
	}
	tx.Sig = sig
	return nil
}

// VerifyTrx recovers the signer of tx and checks it against tx.From.
func VerifyTrx(tx *Trx, chainId string) (types.Address, bytes.HexBytes, xerrors.XError) {
	preimg, xerr := PreImageToSignTrx(tx, chainId)
	if xerr != nil {
		return nil, nil, xerr
	}

	fromAddr, pubKey, xerr := crypto.Sig2Addr(preimg, tx.Sig)
	if xerr != nil {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(xerr)
	}
	if bytes.Compare(fromAddr, tx.From) != 0 {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(fmt.Errorf("wrong address or sig - expected: %v, actual: %v", tx.From, fromAddr))
	}
	return fromAddr, pubKey, nil
}
