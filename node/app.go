package node

import (
	"fmt"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	"github.com/rigochain/rigo-vote/cmd/version"
	"github.com/rigochain/rigo-vote/ctrlers/account"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/rigochain/rigo-vote/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmver "github.com/tendermint/tendermint/version"
	"sync"
)

var _ abcitypes.Application = (*VoteApp)(nil)

type VoteApp struct {
	abcitypes.BaseApplication

	lastBlockCtx *ctrlertypes.BlockContext
	nextBlockCtx *ctrlertypes.BlockContext
	lastAppHash  bytes.HexBytes

	metaDB       *MetaDB
	acctCtrler   *account.AcctCtrler
	votingCtrler *voting.VotingCtrler
	txExecutor   *TrxExecutor

	rootAddress types.Address
	rootConfig  *cfg.Config

	logger log.Logger
	mtx    sync.Mutex
}

func NewVoteApp(config *cfg.Config, logger log.Logger) (*VoteApp, xerrors.XError) {
	metaDB, err := openMetaDB("rigo_app", config.DBBackend, config.DBDir())
	if err != nil {
		return nil, xerrors.From(err)
	}

	acctCtrler, xerr := account.NewAcctCtrler(config, logger)
	if xerr != nil {
		return nil, xerr
	}

	votingCtrler, xerr := voting.NewVotingCtrler(config, logger)
	if xerr != nil {
		return nil, xerr
	}

	return &VoteApp{
		metaDB:       metaDB,
		acctCtrler:   acctCtrler,
		votingCtrler: votingCtrler,
		txExecutor:   NewTrxExecutor(logger),
		rootConfig:   config,
		logger:       logger.With("module", "rigo_VoteApp"),
	}, nil
}

func (app *VoteApp) Close() error {
	if xerr := app.acctCtrler.Close(); xerr != nil {
		return xerr
	}
	if xerr := app.votingCtrler.Close(); xerr != nil {
		return xerr
	}
	return app.metaDB.Close()
}

func (app *VoteApp) Info(info abcitypes.RequestInfo) abcitypes.ResponseInfo {
	app.logger.Info("Info", "version", tmver.ABCIVersion, "AppVersion", version.String())

	lastHeight := app.metaDB.LastBlockHeight()
	app.lastAppHash = app.metaDB.LastBlockAppHash()
	app.lastBlockCtx = ctrlertypes.NewBlockContext(abcitypes.RequestBeginBlock{
		Header: tmproto.Header{Height: lastHeight},
	})

	app.rootConfig.ChainID = app.metaDB.ChainID()
	app.rootAddress = app.metaDB.RootAddress()

	return abcitypes.ResponseInfo{
		Data:             "",
		Version:          tmver.ABCIVersion,
		AppVersion:       version.Uint64(),
		LastBlockHeight:  lastHeight,
		LastBlockAppHash: app.lastAppHash,
	}
}

// InitChain is called only when the ResponseInfo::LastBlockHeight which is returned in Info() is 0.
func (app *VoteApp) InitChain(req abcitypes.RequestInitChain) abcitypes.ResponseInitChain {
	if req.GetChainId() == "" {
		panic("there is no chain_id")
	}

	appState := &genesis.GenesisAppState{}
	if err := tmjson.Unmarshal(req.AppStateBytes, appState); err != nil {
		panic(err)
	}
	if xerr := appState.Validate(); xerr != nil {
		panic(xerr)
	}
	appHash, err := appState.Hash()
	if err != nil {
		panic(err)
	}

	if xerr := app.acctCtrler.InitLedger(appState); xerr != nil {
		app.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}
	if xerr := app.votingCtrler.InitLedger(appState); xerr != nil {
		app.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}

	app.rootConfig.ChainID = req.GetChainId()
	app.rootAddress = appState.RootAddress
	if err := app.metaDB.PutChainID(app.rootConfig.ChainID); err != nil {
		panic(err)
	}
	if err := app.metaDB.PutRootAddress(app.rootAddress); err != nil {
		panic(err)
	}

	app.logger.Info("InitChain", "chainId", app.rootConfig.ChainID, "root", app.rootAddress,
		"voters", len(appState.Voters), "holders", len(appState.AssetHolders),
		"removalThreshold", appState.VotingParams.RemovalThresholdBlocks())

	return abcitypes.ResponseInitChain{
		AppHash: appHash,
	}
}

func (app *VoteApp) CheckTx(req abcitypes.RequestCheckTx) abcitypes.ResponseCheckTx {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	switch req.Type {
	case abcitypes.CheckTxType_New:
		txctx, xerr := ctrlertypes.NewTrxContext(req.Tx,
			app.lastBlockCtx.Height()+int64(1), // the height of the block expected to include this tx
			app.lastBlockCtx.TimeSeconds(),
			false,
			app.setupTrxContext,
		)
		if xerr == nil {
			xerr = app.txExecutor.ExecuteSync(txctx)
		}
		if xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			app.logger.Debug("CheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: errorCode(xerr),
				Log:  xerr.Error(),
			}
		}
		return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}
	case abcitypes.CheckTxType_Recheck:
		// do nothing
	}
	return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}
}

func (app *VoteApp) BeginBlock(req abcitypes.RequestBeginBlock) abcitypes.ResponseBeginBlock {
	if req.Header.Height != app.lastBlockCtx.Height()+1 {
		panic(fmt.Errorf("error block height: expected(%v), actural(%v)", app.lastBlockCtx.Height()+1, req.Header.Height))
	}
	app.logger.Debug("VoteApp::BeginBlock",
		"height", req.Header.Height,
		"hash", req.Hash,
		"prev.hash", req.Header.LastBlockId.Hash)

	app.mtx.Lock() // this lock will be unlocked at EndBlock

	app.nextBlockCtx = ctrlertypes.NewBlockContext(req)
	return abcitypes.ResponseBeginBlock{}
}

func (app *VoteApp) DeliverTx(req abcitypes.RequestDeliverTx) abcitypes.ResponseDeliverTx {
	txctx, xerr := ctrlertypes.NewTrxContext(req.Tx,
		app.nextBlockCtx.Height(),
		app.nextBlockCtx.TimeSeconds(),
		true,
		func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
			_txctx.TxIdx = app.nextBlockCtx.TxsCnt
			app.nextBlockCtx.TxsCnt++
			return nil
		},
		app.setupTrxContext,
	)
	if xerr == nil {
		xerr = app.txExecutor.ExecuteSync(txctx)
	}
	if xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		app.logger.Debug("DeliverTx", "error", xerr)
		return abcitypes.ResponseDeliverTx{
			Code: errorCode(xerr),
			Log:  xerr.Error(),
		}
	}

	txctx.AddEvent(abcitypes.Event{
		Type: "tx",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXTYPE), Value: []byte(txctx.Tx.TypeString()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(txctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSTATUS), Value: []byte("0"), Index: false},
		},
	})

	return abcitypes.ResponseDeliverTx{
		Code:   abcitypes.CodeTypeOK,
		Events: txctx.Events,
	}
}

func (app *VoteApp) EndBlock(req abcitypes.RequestEndBlock) abcitypes.ResponseEndBlock {
	defer app.mtx.Unlock() // this was locked at BeginBlock

	app.logger.Debug("VoteApp::EndBlock", "height", req.Height, "txs", app.nextBlockCtx.TxsCnt)
	return abcitypes.ResponseEndBlock{}
}

func (app *VoteApp) Commit() abcitypes.ResponseCommit {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	appHash0, ver0, xerr := app.acctCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	appHash1, ver1, xerr := app.votingCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	if ver0 != ver1 || ver0 != app.nextBlockCtx.Height() {
		panic(fmt.Sprintf("not same versions: height: %v, account: %v, voting: %v", app.nextBlockCtx.Height(), ver0, ver1))
	}

	appHash := crypto.DefaultHash(appHash0, appHash1)
	if err := app.metaDB.PutLastBlockAppHash(appHash); err != nil {
		panic(err)
	}
	if err := app.metaDB.PutLastBlockHeight(ver0); err != nil {
		panic(err)
	}
	app.logger.Debug("VoteApp::Commit", "height", ver0, "txs", app.nextBlockCtx.TxsCnt, "app hash", bytes.HexBytes(appHash))

	app.lastBlockCtx = app.nextBlockCtx
	app.lastAppHash = appHash
	app.nextBlockCtx = nil

	return abcitypes.ResponseCommit{
		Data: appHash,
	}
}

// setupTrxContext authenticates the sender of the tx and sets the handlers.
// Only the root address of the genesis is privileged.
func (app *VoteApp) setupTrxContext(txctx *ctrlertypes.TrxContext) xerrors.XError {
	addr, pubKey, xerr := ctrlertypes.VerifyTrx(txctx.Tx, app.rootConfig.ChainID)
	if xerr != nil {
		return xerr
	}
	txctx.SenderPubKey = pubKey
	txctx.Caller = types.NewCaller(addr, bytes.Compare(addr, app.rootAddress) == 0)

	txctx.TrxAcctHandler = app.acctCtrler
	txctx.TrxVotingHandler = app.votingCtrler
	txctx.BalanceHandler = app.acctCtrler
	return nil
}

func errorCode(xerr xerrors.XError) uint32 {
	if cause, ok := xerr.Cause().(xerrors.XError); ok {
		return cause.Code()
	}
	return xerr.Code()
}
