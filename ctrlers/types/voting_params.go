package types

import (
	"encoding/json"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rigochain/rigo-vote/ledger"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"io"
	"sync"
)

var votingParamsKey = ledger.ToLedgerKey([]byte("voting_params"))

type VotingParams struct {
	version int64
	// votes can be neither canceled nor switched to Nay
	// when fewer blocks than this remain until the end of the proposal.
	removalThresholdBlocks int64

	mtx sync.RWMutex
}

type votingParamsRLP struct {
	Version                uint64
	RemovalThresholdBlocks uint64
}

type votingParamsJSON struct {
	Version                int64 `json:"version,string"`
	RemovalThresholdBlocks int64 `json:"removalThresholdBlocks,string"`
}

func DefaultVotingParams() *VotingParams {
	return &VotingParams{
		version:                1,
		removalThresholdBlocks: 14400, // = 60 * 60 * 24 / 6 => 1 day
	}
}

func Test0VotingParams() *VotingParams {
	return &VotingParams{
		version:                1,
		removalThresholdBlocks: 10,
	}
}

func NewVotingParams(removalThreshold int64) *VotingParams {
	return &VotingParams{
		version:                1,
		removalThresholdBlocks: removalThreshold,
	}
}

func VotingParamsKey() ledger.LedgerKey {
	return votingParamsKey
}

func (params *VotingParams) Key() ledger.LedgerKey {
	return votingParamsKey
}

func (params *VotingParams) Version() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.version
}

func (params *VotingParams) RemovalThresholdBlocks() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.removalThresholdBlocks
}

func (params *VotingParams) EncodeRLP(w io.Writer) error {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return rlp.Encode(w, &votingParamsRLP{
		Version:                uint64(params.version),
		RemovalThresholdBlocks: uint64(params.removalThresholdBlocks),
	})
}

func (params *VotingParams) DecodeRLP(s *rlp.Stream) error {
	r := &votingParamsRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}

	params.mtx.Lock()
	defer params.mtx.Unlock()

	params.version = int64(r.Version)
	params.removalThresholdBlocks = int64(r.RemovalThresholdBlocks)
	return nil
}

func (params *VotingParams) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(params)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (params *VotingParams) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, params); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (params *VotingParams) MarshalJSON() ([]byte, error) {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return json.Marshal(&votingParamsJSON{
		Version:                params.version,
		RemovalThresholdBlocks: params.removalThresholdBlocks,
	})
}

func (params *VotingParams) UnmarshalJSON(bz []byte) error {
	tm := &votingParamsJSON{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}

	params.mtx.Lock()
	defer params.mtx.Unlock()

	params.version = tm.Version
	params.removalThresholdBlocks = tm.RemovalThresholdBlocks
	return nil
}

var _ ledger.ILedgerItem = (*VotingParams)(nil)
