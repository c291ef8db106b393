package config

import (
	"github.com/rigochain/rigo-vote/types/crypto"
	tmcfg "github.com/tendermint/tendermint/config"
	"path/filepath"
)

// Config is the tendermint config of the node.
// ChainID is loaded from the app's meta db, not from the config file.
type Config struct {
	*tmcfg.Config
	ChainID string
}

func DefaultConfig() *Config {
	return &Config{
		Config: tmcfg.DefaultConfig(),
	}
}

// WalletKeyDir is the directory where `init` saves the wallet keys of the genesis accounts.
func (cfg *Config) WalletKeyDir() string {
	return filepath.Join(cfg.RootDir, crypto.DefaultWalletKeyDir)
}
