package node

import (
	"fmt"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	"github.com/rigochain/rigo-vote/rpc"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmnode "github.com/tendermint/tendermint/node"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	"github.com/tendermint/tendermint/proxy"
)

// NewVoteNode returns a Tendermint node running app in the same process.
// The validator key and the node key are loaded from the files of config.
func NewVoteNode(config *cfg.Config, app *VoteApp, logger tmlog.Logger) (*tmnode.Node, error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load or gen node key %s: %w", config.NodeKeyFile(), err)
	}

	rpcOption := func(node *tmnode.Node) {
		rpc.AddRoutes()
	}

	return tmnode.NewNode(config.Config,
		privval.LoadFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile()),
		nodeKey,
		proxy.NewLocalClientCreator(app),
		tmnode.DefaultGenesisDocProviderFunc(config.Config),
		tmnode.DefaultDBProvider,
		tmnode.DefaultMetricsProvider(config.Instrumentation),
		logger,
		rpcOption,
	)
}
