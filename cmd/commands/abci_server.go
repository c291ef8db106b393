package commands

import (
	"fmt"
	"github.com/rigochain/rigo-vote/node"
	"github.com/spf13/cobra"
	abciserver "github.com/tendermint/tendermint/abci/server"
	tmos "github.com/tendermint/tendermint/libs/os"
)

// NewABCIServerCmd returns the command that serves the voting app over the ABCI socket
// so that an external tendermint node can connect to it through `proxy_app`.
func NewABCIServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abci",
		Short: "Run the voting app as an ABCI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, xerr := node.NewVoteApp(rootConfig, logger)
			if xerr != nil {
				return fmt.Errorf("failed to create app: %w", xerr)
			}

			srv, err := abciserver.NewServer(rootConfig.ProxyApp, rootConfig.ABCI, app)
			if err != nil {
				_ = app.Close()
				return err
			}
			srv.SetLogger(logger.With("module", "abci-server"))
			if err := srv.Start(); err != nil {
				_ = app.Close()
				return err
			}
			logger.Info("Started ABCI server", "addr", rootConfig.ProxyApp, "transport", rootConfig.ABCI)

			tmos.TrapSignal(logger, func() {
				if err := srv.Stop(); err != nil {
					logger.Error("unable to stop the abci server", "error", err)
				}
				if err := app.Close(); err != nil {
					logger.Error("unable to close the app", "error", err)
				}
			})

			// Run forever.
			select {}
		},
	}

	cmd.Flags().String(
		"proxy_app",
		rootConfig.ProxyApp,
		"address on which the abci server of the app listens")
	cmd.Flags().String("abci", rootConfig.ABCI, "specify abci transport (socket | grpc)")
	return cmd
}
