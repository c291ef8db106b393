package types

import (
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
)

// TrxPayloadRegisterVoter adds Voter to the voter registry.
// Only the root account can send it.
type TrxPayloadRegisterVoter struct {
	Voter types.Address `json:"voter"`
}

func (tx *TrxPayloadRegisterVoter) Type() int32 {
	return TRX_REGISTER_VOTER
}

func (tx *TrxPayloadRegisterVoter) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadRegisterVoter)
	if !ok {
		return false
	}
	return bytes.Compare(tx.Voter, _tx0.Voter) == 0
}

type TrxPayloadMakeProposal struct {
	Content bytes.HexBytes `json:"content"`
	EndTime uint64         `json:"endTime"`
}

func (tx *TrxPayloadMakeProposal) Type() int32 {
	return TRX_MAKE_PROPOSAL
}

func (tx *TrxPayloadMakeProposal) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadMakeProposal)
	if !ok {
		return false
	}
	return bytes.Compare(tx.Content, _tx0.Content) == 0 &&
		tx.EndTime == _tx0.EndTime
}

type TrxPayloadIncreaseProposalTime struct {
	ProposalID uint32 `json:"proposalId"`
	EndTime    uint64 `json:"endTime"`
}

func (tx *TrxPayloadIncreaseProposalTime) Type() int32 {
	return TRX_INCREASE_PROPOSAL_TIME
}

func (tx *TrxPayloadIncreaseProposalTime) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadIncreaseProposalTime)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID && tx.EndTime == _tx0.EndTime
}

type TrxPayloadCancelProposal struct {
	ProposalID uint32 `json:"proposalId"`
}

func (tx *TrxPayloadCancelProposal) Type() int32 {
	return TRX_CANCEL_PROPOSAL
}

func (tx *TrxPayloadCancelProposal) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadCancelProposal)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID
}

// TrxPayloadVote carries the decision of a vote.
// Aye is false for a Nay decision.
type TrxPayloadVote struct {
	ProposalID uint32 `json:"proposalId"`
	Aye        bool   `json:"aye"`
	Amount     uint32 `json:"amount"`
}

func (tx *TrxPayloadVote) Type() int32 {
	return TRX_VOTE
}

func (tx *TrxPayloadVote) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadVote)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID &&
		tx.Aye == _tx0.Aye &&
		tx.Amount == _tx0.Amount
}

type TrxPayloadUpdateVote struct {
	ProposalID uint32 `json:"proposalId"`
	Aye        bool   `json:"aye"`
	Amount     uint32 `json:"amount"`
}

func (tx *TrxPayloadUpdateVote) Type() int32 {
	return TRX_UPDATE_VOTE
}

func (tx *TrxPayloadUpdateVote) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadUpdateVote)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID &&
		tx.Aye == _tx0.Aye &&
		tx.Amount == _tx0.Amount
}

type TrxPayloadCancelVote struct {
	ProposalID uint32 `json:"proposalId"`
}

func (tx *TrxPayloadCancelVote) Type() int32 {
	return TRX_CANCEL_VOTE
}

func (tx *TrxPayloadCancelVote) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadCancelVote)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID
}

type TrxPayloadFinishProposal struct {
	ProposalID uint32 `json:"proposalId"`
}

func (tx *TrxPayloadFinishProposal) Type() int32 {
	return TRX_FINISH_PROPOSAL
}

func (tx *TrxPayloadFinishProposal) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadFinishProposal)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID
}

type TrxPayloadUnlockBalance struct {
	ProposalID uint32 `json:"proposalId"`
}

func (tx *TrxPayloadUnlockBalance) Type() int32 {
	return TRX_UNLOCK_BALANCE
}

func (tx *TrxPayloadUnlockBalance) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadUnlockBalance)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID
}

var _ ITrxPayload = (*TrxPayloadRegisterVoter)(nil)
var _ ITrxPayload = (*TrxPayloadMakeProposal)(nil)
var _ ITrxPayload = (*TrxPayloadIncreaseProposalTime)(nil)
var _ ITrxPayload = (*TrxPayloadCancelProposal)(nil)
var _ ITrxPayload = (*TrxPayloadVote)(nil)
var _ ITrxPayload = (*TrxPayloadUpdateVote)(nil)
var _ ITrxPayload = (*TrxPayloadCancelVote)(nil)
var _ ITrxPayload = (*TrxPayloadFinishProposal)(nil)
var _ ITrxPayload = (*TrxPayloadUnlockBalance)(nil)
