package voting

import (
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/types"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"strconv"
)

const EVENT_TYPE_VOTING = "voting"

const (
	EVENT_ATTR_EVENT       = "event"
	EVENT_ATTR_PROPOSAL_ID = "proposal_id"
	EVENT_ATTR_WHO         = "who"
	EVENT_ATTR_END_TIME    = "end_time"
	EVENT_ATTR_STATUS      = "status"
	EVENT_ATTR_DECISION    = "decision"
	EVENT_ATTR_PREVIOUS    = "previous"
	EVENT_ATTR_NEW         = "new"
	EVENT_ATTR_AMOUNT      = "amount"
)

const (
	EventVoterRegistered   = "VoterRegistered"
	EventProposalSubmitted = "ProposalSubmitted"
	EventProposalUpdated   = "ProposalUpdated"
	EventProposalCanceled  = "ProposalCanceled"
	EventVoteCasted        = "VoteCasted"
	EventVoteCanceled      = "VoteCanceled"
	EventProposalEnded     = "ProposalEnded"
	EventBalanceUnlocked   = "BalanceUnlocked"
)

func newEvent(name string, attrs ...abcitypes.EventAttribute) abcitypes.Event {
	return abcitypes.Event{
		Type: EVENT_TYPE_VOTING,
		Attributes: append([]abcitypes.EventAttribute{
			{Key: []byte(EVENT_ATTR_EVENT), Value: []byte(name), Index: true},
		}, attrs...),
	}
}

func attrProposalID(id proposal.ProposalID) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{
		Key:   []byte(EVENT_ATTR_PROPOSAL_ID),
		Value: []byte(strconv.FormatUint(uint64(id), 10)),
		Index: true,
	}
}

func attrWho(addr types.Address) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{
		Key:   []byte(EVENT_ATTR_WHO),
		Value: []byte(addr.String()),
		Index: true,
	}
}

func attr(key, value string) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{
		Key:   []byte(key),
		Value: []byte(value),
		Index: false,
	}
}

// EventAttrValue returns the value of the attribute `key` in evt or an empty string.
func EventAttrValue(evt abcitypes.Event, key string) string {
	for _, a := range evt.Attributes {
		if string(a.Key) == key {
			return string(a.Value)
		}
	}
	return ""
}
