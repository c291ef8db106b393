package commands

import (
	"fmt"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/spf13/cobra"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmtypes "github.com/tendermint/tendermint/types"
)

// ShowGenesisCmd prints the app state of the genesis file.
var ShowGenesisCmd = &cobra.Command{
	Use:     "show-genesis",
	Aliases: []string{"show_genesis"},
	Short:   "Show the root account, the voters and the voting params of the genesis",
	RunE:    showGenesis,
	PreRun:  deprecateSnakeCase,
}

func showGenesis(cmd *cobra.Command, args []string) error {
	genDoc, err := tmtypes.GenesisDocFromFile(rootConfig.GenesisFile())
	if err != nil {
		return err
	}

	appState := &genesis.GenesisAppState{}
	if err := tmjson.Unmarshal(genDoc.AppState, appState); err != nil {
		return err
	}
	if xerr := appState.Validate(); xerr != nil {
		return xerr
	}

	bz, err := tmjson.MarshalIndent(appState, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println("chain_id:", genDoc.ChainID)
	fmt.Println(string(bz))
	return nil
}
