package proposal

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"math"
)

var stateKey = ledger.ToLedgerKey([]byte("voting_state"))

// VotingState holds the scalar state of the voting module.
// LastProposalID is the proposal counter; 0 means no proposal was made.
type VotingState struct {
	LastProposalID ProposalID `json:"lastProposalId"`
}

func StateKey() ledger.LedgerKey {
	return stateKey
}

func (st *VotingState) Key() ledger.LedgerKey {
	return stateKey
}

// NextProposalID returns the id following LastProposalID without
// changing the state.
func (st *VotingState) NextProposalID() (ProposalID, xerrors.XError) {
	if st.LastProposalID == math.MaxUint32 {
		return 0, xerrors.ErrProposalIdOverflow
	}
	return st.LastProposalID + 1, nil
}

func (st *VotingState) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(st)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (st *VotingState) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, st); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*VotingState)(nil)
