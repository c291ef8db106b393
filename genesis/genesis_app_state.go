package genesis

import (
	"github.com/rigochain/rigo-vote/ctrlers/types"
	types2 "github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/rigochain/rigo-vote/types/xerrors"
)

// GenesisAppState is the app_state of the genesis document.
// RootAddress is the only privileged account; it can register voters.
type GenesisAppState struct {
	RootAddress  types2.Address        `json:"rootAddress"`
	Voters       []types2.Address      `json:"voters"`
	AssetHolders []*GenesisAssetHolder `json:"assetHolders"`
	VotingParams *types.VotingParams   `json:"votingParams"`
}

func (ga *GenesisAppState) Validate() xerrors.XError {
	if len(ga.RootAddress) != types2.AddrSize {
		return xerrors.ErrInitChain.Wrapf("wrong root address: %v", ga.RootAddress)
	}
	if ga.VotingParams == nil {
		return xerrors.ErrInitChain.Wrapf("voting params is nil")
	}
	if ga.VotingParams.RemovalThresholdBlocks() < 0 {
		return xerrors.ErrInitChain.Wrapf("negative removal threshold: %v", ga.VotingParams.RemovalThresholdBlocks())
	}
	voters := make(map[string]struct{}, len(ga.Voters))
	for _, v := range ga.Voters {
		if len(v) != types2.AddrSize {
			return xerrors.ErrInitChain.Wrapf("wrong voter address: %v", v)
		}
		if _, ok := voters[v.String()]; ok {
			return xerrors.ErrInitChain.Wrapf("duplicated voter: %v", v)
		}
		voters[v.String()] = struct{}{}
	}
	holders := make(map[string]struct{}, len(ga.AssetHolders))
	for _, h := range ga.AssetHolders {
		if h == nil || len(h.Address) != types2.AddrSize || h.Balance == nil {
			return xerrors.ErrInitChain.Wrapf("wrong asset holder: %v", h)
		}
		if _, ok := holders[h.Address.String()]; ok {
			return xerrors.ErrInitChain.Wrapf("duplicated asset holder: %v", h.Address)
		}
		holders[h.Address.String()] = struct{}{}
	}
	return nil
}

func (ga *GenesisAppState) Hash() ([]byte, error) {
	hasher := crypto.DefaultHasher()
	if bz, err := ga.VotingParams.Encode(); err != nil {
		return nil, err
	} else if _, err := hasher.Write(bz); err != nil {
		return nil, err
	} else if _, err := hasher.Write(ga.RootAddress); err != nil {
		return nil, err
	}
	for _, v := range ga.Voters {
		if _, err := hasher.Write(v); err != nil {
			return nil, err
		}
	}
	for _, h := range ga.AssetHolders {
		if _, err := hasher.Write(h.Hash()); err != nil {
			return nil, err
		}
	}
	return hasher.Sum(nil), nil
}
