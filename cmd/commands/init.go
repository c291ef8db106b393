package commands

import (
	"fmt"
	"github.com/holiman/uint256"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	"github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/libs"
	acrypto "github.com/rigochain/rigo-vote/types/crypto"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/crypto/secp256k1"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

var (
	rigoChainID      = "localnet"
	voterCnt         = 3
	removalThreshold = types.DefaultVotingParams().RemovalThresholdBlocks()
	walkeySecret     string

	// the balance of each genesis account
	genesisBalance = uint256.NewInt(1_000_000_000)
)

// NewInitFilesCmd returns the command that creates the validator key, the node key,
// the wallet keys of the genesis accounts and the genesis file.
func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a rigo-vote node",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&rigoChainID,
		"chain_id",
		rigoChainID,
		"the id of chain to generate")
	cmd.Flags().IntVar(
		&voterCnt,
		"voters",
		voterCnt,
		"the number of voters registered at genesis. "+
			"the wallet keys of the root account and the voters are saved at $RIGOVOTEHOME/walkeys",
	)
	cmd.Flags().Int64Var(
		&removalThreshold,
		"removal_threshold",
		removalThreshold,
		"the number of blocks before the end of a proposal in which a vote can not be canceled",
	)
	cmd.Flags().StringVar(
		&walkeySecret,
		"passphrase",
		"",
		"passphrase to encrypt the wallet keys of the genesis accounts",
	)
}

func initFiles(cmd *cobra.Command, args []string) error {
	var s []byte
	if walkeySecret != "" {
		s = []byte(walkeySecret)
		walkeySecret = ""
	} else {
		var err error
		if s, err = libs.ReadCredential("Passphrase for wallet keys: "); err != nil {
			return err
		}
	}
	defer libs.ClearCredential(s)

	return InitFilesWith(rigoChainID, rootConfig, voterCnt, removalThreshold, s)
}

func InitFilesWith(chainID string, config *cfg.Config, voters int, threshold int64, secret []byte) error {
	// private validator
	privValKeyFile := config.PrivValidatorKeyFile()
	privValStateFile := config.PrivValidatorStateFile()
	var pv *privval.FilePV
	if tmos.FileExists(privValKeyFile) {
		pv = privval.LoadFilePV(privValKeyFile, privValStateFile)
		logger.Info("Found private validator", "keyFile", privValKeyFile,
			"stateFile", privValStateFile)
	} else {
		pv = privval.NewFilePV(secp256k1.GenPrivKey(), privValKeyFile, privValStateFile)
		pv.Save()
		logger.Info("Generated private validator", "keyFile", privValKeyFile,
			"stateFile", privValStateFile)
	}

	nodeKeyFile := config.NodeKeyFile()
	if tmos.FileExists(nodeKeyFile) {
		logger.Info("Found node key", "path", nodeKeyFile)
	} else {
		if _, err := p2p.LoadOrGenNodeKey(nodeKeyFile); err != nil {
			return err
		}
		logger.Info("Generated node key", "path", nodeKeyFile)
	}

	// genesis file
	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	walkeyDir := config.WalletKeyDir()
	if err := tmos.EnsureDir(walkeyDir, acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}

	rootKeys, err := acrypto.CreateWalletKeyFiles(secret, 1, walkeyDir)
	if err != nil {
		return err
	}
	voterKeys, err := acrypto.CreateWalletKeyFiles(secret, voters, walkeyDir)
	if err != nil {
		return err
	}

	appState := &genesis.GenesisAppState{
		RootAddress: rootKeys[0].Address,
		AssetHolders: []*genesis.GenesisAssetHolder{
			genesis.NewGenesisAssetHolder(rootKeys[0].Address, genesisBalance.Clone()),
		},
		VotingParams: types.NewVotingParams(threshold),
	}
	for _, wk := range voterKeys {
		appState.Voters = append(appState.Voters, wk.Address)
		appState.AssetHolders = append(appState.AssetHolders, genesis.NewGenesisAssetHolder(wk.Address, genesisBalance.Clone()))
	}
	if xerr := appState.Validate(); xerr != nil {
		return xerr
	}

	pubKey, err := pv.GetPubKey()
	if err != nil {
		return fmt.Errorf("can't get pubkey: %w", err)
	}
	valset := []tmtypes.GenesisValidator{{
		Address: pubKey.Address(),
		PubKey:  pubKey,
		Power:   10,
	}}

	genDoc, err := genesis.NewGenesisDoc(chainID, valset, appState)
	if err != nil {
		return err
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile,
		"root", appState.RootAddress, "voters", len(appState.Voters), "walkeys", walkeyDir)

	return nil
}

