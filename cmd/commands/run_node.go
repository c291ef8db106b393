package commands

import (
	"bytes"
	"fmt"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	"github.com/rigochain/rigo-vote/node"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var (
	genesisHash []byte
)

// AddNodeFlags exposes some common configuration options on the command-line
// These are exposed for convenience of commands embedding a node
func AddNodeFlags(cmd *cobra.Command) {
	// bind flags
	cmd.Flags().String("moniker", rootConfig.Moniker, "node name")

	// priv val flags
	cmd.Flags().String(
		"priv_validator_laddr",
		rootConfig.PrivValidatorListenAddr,
		"socket address to listen on for connections from external priv_validator process")

	// node flags
	cmd.Flags().Bool("fast_sync", rootConfig.FastSyncMode, "fast blockchain syncing")
	cmd.Flags().BytesHexVar(
		&genesisHash,
		"genesis_hash",
		[]byte{},
		"optional keccak256 hash of the genesis file")
	cmd.Flags().Int64("consensus.double_sign_check_height", rootConfig.Consensus.DoubleSignCheckHeight,
		"how many blocks to look back to check existence of the node's "+
			"consensus votes before joining consensus")

	// abci flags
	cmd.Flags().String(
		"proxy_app",
		rootConfig.ProxyApp,
		"address on which the abci server of the app listens")
	cmd.Flags().String("abci", rootConfig.ABCI, "specify abci transport (socket | grpc)")

	// rpc flags
	cmd.Flags().String("rpc.laddr", rootConfig.RPC.ListenAddress, "RPC listen address. Port required")
	cmd.Flags().StringSlice("rpc.cors_allowed_origins", rootConfig.RPC.CORSAllowedOrigins, "")
	cmd.Flags().String(
		"rpc.grpc_laddr",
		rootConfig.RPC.GRPCListenAddress,
		"GRPC listen address (BroadcastTx only). Port required")
	cmd.Flags().Bool("rpc.unsafe", rootConfig.RPC.Unsafe, "enabled unsafe rpc methods")
	cmd.Flags().String("rpc.pprof_laddr", rootConfig.RPC.PprofListenAddress, "pprof listen address (https://golang.org/pkg/net/http/pprof)")

	// p2p flags
	cmd.Flags().String(
		"p2p.laddr",
		rootConfig.P2P.ListenAddress,
		"p2p listen address. (0.0.0.0:0 means any interface, any port)")
	cmd.Flags().String("p2p.seeds", rootConfig.P2P.Seeds, "comma-delimited ID@host:port seed nodes")
	cmd.Flags().String("p2p.persistent_peers", rootConfig.P2P.PersistentPeers, "comma-delimited ID@host:port persistent peers")
	cmd.Flags().String("p2p.unconditional_peer_ids",
		rootConfig.P2P.UnconditionalPeerIDs, "comma-delimited IDs of unconditional peers")
	cmd.Flags().Bool("p2p.upnp", rootConfig.P2P.UPNP, "enable/disable UPNP port forwarding")
	cmd.Flags().Bool("p2p.pex", rootConfig.P2P.PexReactor, "enable/disable Peer-Exchange")
	cmd.Flags().Bool("p2p.seed_mode", rootConfig.P2P.SeedMode, "enable/disable seed mode")
	cmd.Flags().String("p2p.private_peer_ids", rootConfig.P2P.PrivatePeerIDs, "comma-delimited private peer IDs")

	// consensus flags
	cmd.Flags().Bool(
		"consensus.create_empty_blocks",
		rootConfig.Consensus.CreateEmptyBlocks,
		"set this to false to only produce blocks when there are txs or when the AppHash changes")
	cmd.Flags().String(
		"consensus.create_empty_blocks_interval",
		rootConfig.Consensus.CreateEmptyBlocksInterval.String(),
		"the possible interval between empty blocks")

	// db flags
	cmd.Flags().String(
		"db_backend",
		rootConfig.DBBackend,
		"database backend: goleveldb | memdb")
	cmd.Flags().String(
		"db_dir",
		rootConfig.DBPath,
		"database directory")
}

// NewRunNodeCmd returns the command that starts a tendermint node
// running the voting app in the same process.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Run the rigo-vote node",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkGenesisHash(rootConfig); err != nil {
				return err
			}

			app, xerr := node.NewVoteApp(rootConfig, logger)
			if xerr != nil {
				return fmt.Errorf("failed to create app: %w", xerr)
			}

			n, err := node.NewVoteNode(rootConfig, app, logger)
			if err != nil {
				_ = app.Close()
				return fmt.Errorf("failed to create node: %w", err)
			}

			if err := n.Start(); err != nil {
				_ = app.Close()
				return fmt.Errorf("failed to start node: %w", err)
			}

			logger.Info("Started node", "nodeInfo", n.Switch().NodeInfo())

			// Stop upon receiving SIGTERM or CTRL-C.
			trapSignal(logger, func() {
				if n.IsRunning() {
					if err := n.ProxyApp().Stop(); err != nil {
						logger.Error("unable to stop the proxy app", "error", err)
					}
					if err := n.Stop(); err != nil {
						logger.Error("unable to stop the node", "error", err)
					}
				}
				if err := app.Close(); err != nil {
					logger.Error("unable to close the app", "error", err)
				}
			})

			// Run forever.
			select {}
		},
	}

	AddNodeFlags(cmd)
	return cmd
}

func checkGenesisHash(config *cfg.Config) error {
	if len(genesisHash) == 0 || config.Genesis == "" {
		return nil
	}

	// Calculate the hash of the genesis file.
	f, err := os.Open(config.GenesisFile())
	if err != nil {
		return fmt.Errorf("can't open genesis file: %w", err)
	}
	defer f.Close()
	h := crypto.DefaultHasher()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("error when hashing genesis file: %w", err)
	}
	actualHash := h.Sum(nil)

	// Compare with the flag.
	if !bytes.Equal(genesisHash, actualHash) {
		return fmt.Errorf(
			"--genesis_hash=%X does not match %s hash: %X",
			genesisHash, config.GenesisFile(), actualHash)
	}

	return nil
}

// trapSignal runs cb and exits when the process is interrupted.
func trapSignal(logger log.Logger, cb func()) {
	var signals = []os.Signal{
		os.Interrupt,
		syscall.SIGTERM,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)
	go func() {
		for sig := range c {
			logger.Info("signal trapped", "msg", log.NewLazySprintf("captured %v, exiting...", sig))
			if cb != nil {
				cb()
			}
			os.Exit(0)
		}
	}()
}
