package main

import (
	"github.com/rigochain/rigo-vote/cmd/commands"
	"github.com/rigochain/rigo-vote/libs"
	"github.com/tendermint/tendermint/libs/cli"
	"path/filepath"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.ResetPrivValidatorCmd,
		commands.ResetAllCmd,
		commands.NewRunNodeCmd(),
		commands.NewABCIServerCmd(),
		commands.NewWalletKeyCmd(),
		commands.ShowGenesisCmd,
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "RIGOVOTE", filepath.Join(libs.GetHome(), ".rigo-vote"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
