package node

import (
	"crypto/ecdsa"
	"encoding/json"
	"github.com/holiman/uint256"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	"testing"
)

const testChainID = "rigo-vote-test-chain"

type testWallet struct {
	prvKey *ecdsa.PrivateKey
	addr   types.Address
	nonce  uint64
}

func newTestWallet(t *testing.T) *testWallet {
	prv, err := crypto.NewPrvKey()
	require.NoError(t, err)
	return &testWallet{prvKey: prv, addr: crypto.Pub2Addr(&prv.PublicKey)}
}

// signTx signs payload with the next nonce of w.
// The nonce of w is not increased; call w.nonce++ when the tx is expected to succeed.
func (w *testWallet) signTx(t *testing.T, payload ctrlertypes.ITrxPayload, chainID string) []byte {
	tx := ctrlertypes.NewTrx(1, w.addr, w.nonce+1, payload)
	require.NoError(t, ctrlertypes.SignTrx(tx, w.prvKey, chainID))
	bz, xerr := tx.Encode()
	require.NoError(t, xerr)
	return bz
}

type testChain struct {
	app    *VoteApp
	height int64
}

func newTestChain(t *testing.T, appState *genesis.GenesisAppState) *testChain {
	config := cfg.DefaultConfig()
	config.DBBackend = "memdb"

	app, xerr := NewVoteApp(config, log.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = app.Close() })

	info := app.Info(abcitypes.RequestInfo{})
	require.Equal(t, int64(0), info.LastBlockHeight)

	bz, err := tmjson.Marshal(appState)
	require.NoError(t, err)
	resp := app.InitChain(abcitypes.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: bz,
	})
	expected, err := appState.Hash()
	require.NoError(t, err)
	require.Equal(t, expected, resp.AppHash)

	return &testChain{app: app}
}

// block delivers txs in a new block and returns the responses.
func (chain *testChain) block(t *testing.T, txs ...[]byte) []abcitypes.ResponseDeliverTx {
	chain.height++
	chain.app.BeginBlock(abcitypes.RequestBeginBlock{
		Header: tmproto.Header{ChainID: testChainID, Height: chain.height},
	})

	var resps []abcitypes.ResponseDeliverTx
	for _, tx := range txs {
		resps = append(resps, chain.app.DeliverTx(abcitypes.RequestDeliverTx{Tx: tx}))
	}

	chain.app.EndBlock(abcitypes.RequestEndBlock{Height: chain.height})
	commit := chain.app.Commit()
	require.NotEmpty(t, commit.Data)
	return resps
}

func (chain *testChain) blocksTo(t *testing.T, height int64) {
	for chain.height < height {
		chain.block(t)
	}
}

func findEvent(evts []abcitypes.Event, name string) (abcitypes.Event, bool) {
	for _, evt := range evts {
		if evt.Type == voting.EVENT_TYPE_VOTING && voting.EventAttrValue(evt, voting.EVENT_ATTR_EVENT) == name {
			return evt, true
		}
	}
	return abcitypes.Event{}, false
}

func TestVoteApp_Flow(t *testing.T) {
	root := newTestWallet(t)
	alice := newTestWallet(t) // registered at genesis
	bob := newTestWallet(t)   // registered by root
	carol := newTestWallet(t) // never registered

	appState := &genesis.GenesisAppState{
		RootAddress: root.addr,
		Voters:      []types.Address{alice.addr},
		AssetHolders: []*genesis.GenesisAssetHolder{
			genesis.NewGenesisAssetHolder(root.addr, uint256.NewInt(100)),
			genesis.NewGenesisAssetHolder(alice.addr, uint256.NewInt(1000)),
			genesis.NewGenesisAssetHolder(bob.addr, uint256.NewInt(1000)),
			genesis.NewGenesisAssetHolder(carol.addr, uint256.NewInt(1000)),
		},
		VotingParams: ctrlertypes.NewVotingParams(10),
	}
	chain := newTestChain(t, appState)
	content := bytes.RandHexBytes(32)

	//
	// block 1
	regBob := root.signTx(t, &ctrlertypes.TrxPayloadRegisterVoter{Voter: bob.addr}, testChainID)
	resps := chain.block(t,
		regBob,
		carol.signTx(t, &ctrlertypes.TrxPayloadRegisterVoter{Voter: carol.addr}, testChainID),
		alice.signTx(t, &ctrlertypes.TrxPayloadMakeProposal{Content: content, EndTime: 10}, testChainID),
	)
	root.nonce++
	alice.nonce++

	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	_, ok := findEvent(resps[0].Events, voting.EventVoterRegistered)
	require.True(t, ok)
	txEvt := resps[0].Events[len(resps[0].Events)-1]
	require.Equal(t, "tx", txEvt.Type)
	require.Equal(t, root.addr.String(), voting.EventAttrValue(txEvt, ctrlertypes.EVENT_ATTR_TXSENDER))

	require.Equal(t, xerrors.ErrCodeBadOrigin, resps[1].Code)
	require.Empty(t, resps[1].Events)

	require.Equal(t, abcitypes.CodeTypeOK, resps[2].Code, resps[2].Log)
	evt, ok := findEvent(resps[2].Events, voting.EventProposalSubmitted)
	require.True(t, ok)
	require.Equal(t, "1", voting.EventAttrValue(evt, voting.EVENT_ATTR_PROPOSAL_ID))

	require.True(t, chain.app.votingCtrler.IsRegistered(bob.addr))
	require.False(t, chain.app.votingCtrler.IsRegistered(carol.addr))
	require.Equal(t, uint64(0), chain.app.acctCtrler.ReadAccount(carol.addr).Nonce)

	//
	// block 2
	resps = chain.block(t,
		alice.signTx(t, &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: true, Amount: 3}, testChainID),
		bob.signTx(t, &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: false, Amount: 2}, testChainID),
		carol.signTx(t, &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: false, Amount: 9}, testChainID),
		regBob, // replayed
	)
	alice.nonce++
	bob.nonce++

	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	require.Equal(t, abcitypes.CodeTypeOK, resps[1].Code, resps[1].Log)
	require.Equal(t, xerrors.ErrCodeVoterIsNotRegistered, resps[2].Code)
	require.Equal(t, xerrors.ErrCodeInvalidTrx, resps[3].Code)

	acct := chain.app.acctCtrler.ReadAccount(alice.addr)
	require.Equal(t, uint64(2), acct.Nonce)
	require.Equal(t, uint64(991), acct.Balance.Uint64())
	require.Equal(t, uint64(9), acct.Reserved.Uint64())

	acct = chain.app.acctCtrler.ReadAccount(bob.addr)
	require.Equal(t, uint64(996), acct.Balance.Uint64())
	require.Equal(t, uint64(4), acct.Reserved.Uint64())

	qresp := chain.app.Query(abcitypes.RequestQuery{Path: voting.QUERY_PROPOSAL, Data: []byte("1")})
	require.Equal(t, abcitypes.CodeTypeOK, qresp.Code, qresp.Log)
	require.Equal(t, int64(2), qresp.Height)
	prop := &proposal.Proposal{}
	require.NoError(t, json.Unmarshal(qresp.Value, prop))
	require.Equal(t, uint32(3), prop.Ayes)
	require.Equal(t, uint32(2), prop.Nays)
	require.Equal(t, proposal.InProgress, prop.Status)
	require.Equal(t, content, prop.Content)

	qresp = chain.app.Query(abcitypes.RequestQuery{Path: QUERY_ACCOUNT, Data: alice.addr})
	require.Equal(t, abcitypes.CodeTypeOK, qresp.Code, qresp.Log)

	qresp = chain.app.Query(abcitypes.RequestQuery{Path: voting.QUERY_COUNTER})
	require.Equal(t, abcitypes.CodeTypeOK, qresp.Code, qresp.Log)
	require.JSONEq(t, `{"lastProposalId":1}`, string(qresp.Value))

	qresp = chain.app.Query(abcitypes.RequestQuery{Path: "unknown"})
	require.Equal(t, xerrors.ErrCodeInvalidQueryPath, qresp.Code)

	//
	// the proposal ends after the block 10
	chain.blocksTo(t, 10)
	resps = chain.block(t,
		alice.signTx(t, &ctrlertypes.TrxPayloadUnlockBalance{ProposalID: 1}, testChainID),
	)
	require.Equal(t, xerrors.ErrCodeProposalInProgress, resps[0].Code)

	resps = chain.block(t,
		bob.signTx(t, &ctrlertypes.TrxPayloadFinishProposal{ProposalID: 1}, testChainID),
	)
	bob.nonce++
	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	evt, ok = findEvent(resps[0].Events, voting.EventProposalEnded)
	require.True(t, ok)
	require.Equal(t, proposal.Passed.String(), voting.EventAttrValue(evt, voting.EVENT_ATTR_STATUS))

	resps = chain.block(t,
		alice.signTx(t, &ctrlertypes.TrxPayloadUnlockBalance{ProposalID: 1}, testChainID),
	)
	alice.nonce++
	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	evt, ok = findEvent(resps[0].Events, voting.EventBalanceUnlocked)
	require.True(t, ok)
	require.Equal(t, "9", voting.EventAttrValue(evt, voting.EVENT_ATTR_AMOUNT))

	acct = chain.app.acctCtrler.ReadAccount(alice.addr)
	require.Equal(t, uint64(3), acct.Nonce)
	require.Equal(t, uint64(1000), acct.Balance.Uint64())
	require.True(t, acct.Reserved.IsZero())
}

func TestVoteApp_CheckTx(t *testing.T) {
	root := newTestWallet(t)
	alice := newTestWallet(t)

	chain := newTestChain(t, &genesis.GenesisAppState{
		RootAddress: root.addr,
		AssetHolders: []*genesis.GenesisAssetHolder{
			genesis.NewGenesisAssetHolder(root.addr, uint256.NewInt(100)),
		},
		VotingParams: ctrlertypes.DefaultVotingParams(),
	})
	chain.block(t)

	resp := chain.app.CheckTx(abcitypes.RequestCheckTx{
		Tx:   root.signTx(t, &ctrlertypes.TrxPayloadRegisterVoter{Voter: alice.addr}, testChainID),
		Type: abcitypes.CheckTxType_New,
	})
	require.Equal(t, abcitypes.CodeTypeOK, resp.Code, resp.Log)
	root.nonce++

	// signed for another chain
	resp = chain.app.CheckTx(abcitypes.RequestCheckTx{
		Tx:   root.signTx(t, &ctrlertypes.TrxPayloadRegisterVoter{Voter: alice.addr}, "another-chain"),
		Type: abcitypes.CheckTxType_New,
	})
	require.Equal(t, xerrors.ErrCodeInvalidTrx, resp.Code)

	// a sender without an account starts from nonce 0
	resp = chain.app.CheckTx(abcitypes.RequestCheckTx{
		Tx:   alice.signTx(t, &ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: 100}, testChainID),
		Type: abcitypes.CheckTxType_New,
	})
	require.Equal(t, abcitypes.CodeTypeOK, resp.Code, resp.Log)

	alice.nonce = 5
	resp = chain.app.CheckTx(abcitypes.RequestCheckTx{
		Tx:   alice.signTx(t, &ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: 100}, testChainID),
		Type: abcitypes.CheckTxType_New,
	})
	require.Equal(t, xerrors.ErrCodeInvalidTrx, resp.Code)

	// more than the balance of root
	resp = chain.app.CheckTx(abcitypes.RequestCheckTx{
		Tx:   root.signTx(t, &ctrlertypes.TrxPayloadTransfer{To: alice.addr, Amount: uint256.NewInt(101)}, testChainID),
		Type: abcitypes.CheckTxType_New,
	})
	require.Equal(t, xerrors.ErrCodeInsufficientFund, resp.Code)

	resp = chain.app.CheckTx(abcitypes.RequestCheckTx{
		Tx:   []byte("not a tx"),
		Type: abcitypes.CheckTxType_New,
	})
	require.Equal(t, xerrors.ErrCodeInvalidTrx, resp.Code)
}

func TestVoteApp_NewAccount(t *testing.T) {
	root := newTestWallet(t)
	dave := newTestWallet(t) // neither a voter nor an asset holder at genesis

	chain := newTestChain(t, &genesis.GenesisAppState{
		RootAddress: root.addr,
		AssetHolders: []*genesis.GenesisAssetHolder{
			genesis.NewGenesisAssetHolder(root.addr, uint256.NewInt(1000)),
		},
		VotingParams: ctrlertypes.NewVotingParams(2),
	})
	require.Nil(t, chain.app.acctCtrler.ReadAccount(dave.addr))

	//
	// block 1
	regDave := root.signTx(t, &ctrlertypes.TrxPayloadRegisterVoter{Voter: dave.addr}, testChainID)
	root.nonce++
	propose := dave.signTx(t, &ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: 5}, testChainID)
	dave.nonce++
	unfunded := dave.signTx(t, &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: true, Amount: 2}, testChainID)
	resps := chain.block(t, regDave, propose, unfunded)

	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	require.Equal(t, abcitypes.CodeTypeOK, resps[1].Code, resps[1].Log)
	require.Equal(t, xerrors.ErrCodeInsufficientFund, resps[2].Code, resps[2].Log)

	acct := chain.app.acctCtrler.ReadAccount(dave.addr)
	require.NotNil(t, acct)
	require.Equal(t, uint64(1), acct.Nonce)
	require.True(t, acct.Balance.IsZero())

	//
	// block 2
	fund := root.signTx(t, &ctrlertypes.TrxPayloadTransfer{To: dave.addr, Amount: uint256.NewInt(50)}, testChainID)
	root.nonce++
	vote := dave.signTx(t, &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: true, Amount: 3}, testChainID)
	dave.nonce++
	resps = chain.block(t, fund, vote)
	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	require.Equal(t, abcitypes.CodeTypeOK, resps[1].Code, resps[1].Log)
	txEvt := resps[0].Events[len(resps[0].Events)-1]
	require.Equal(t, "transfer", voting.EventAttrValue(txEvt, ctrlertypes.EVENT_ATTR_TXTYPE))

	acct = chain.app.acctCtrler.ReadAccount(root.addr)
	require.Equal(t, uint64(950), acct.Balance.Uint64())
	require.Equal(t, uint64(2), acct.Nonce)

	acct = chain.app.acctCtrler.ReadAccount(dave.addr)
	require.Equal(t, uint64(41), acct.Balance.Uint64())
	require.Equal(t, uint64(9), acct.Reserved.Uint64())
	require.Equal(t, uint64(2), acct.Nonce)

	//
	// after the end time
	chain.blocksTo(t, 6)
	resps = chain.block(t,
		dave.signTx(t, &ctrlertypes.TrxPayloadFinishProposal{ProposalID: 1}, testChainID),
	)
	dave.nonce++
	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)
	evt, ok := findEvent(resps[0].Events, voting.EventProposalEnded)
	require.True(t, ok)
	require.Equal(t, proposal.Passed.String(), voting.EventAttrValue(evt, voting.EVENT_ATTR_STATUS))

	resps = chain.block(t,
		dave.signTx(t, &ctrlertypes.TrxPayloadUnlockBalance{ProposalID: 1}, testChainID),
	)
	dave.nonce++
	require.Equal(t, abcitypes.CodeTypeOK, resps[0].Code, resps[0].Log)

	acct = chain.app.acctCtrler.ReadAccount(dave.addr)
	require.Equal(t, uint64(50), acct.Balance.Uint64())
	require.True(t, acct.Reserved.IsZero())
	require.Equal(t, uint64(4), acct.Nonce)
}

func TestVoteApp_InitChain_BadGenesis(t *testing.T) {
	config := cfg.DefaultConfig()
	config.DBBackend = "memdb"
	app, xerr := NewVoteApp(config, log.NewNopLogger())
	require.NoError(t, xerr)
	defer app.Close()

	app.Info(abcitypes.RequestInfo{})

	bz, err := tmjson.Marshal(&genesis.GenesisAppState{
		RootAddress:  bytes.RandHexBytes(3),
		VotingParams: ctrlertypes.DefaultVotingParams(),
	})
	require.NoError(t, err)

	require.Panics(t, func() {
		app.InitChain(abcitypes.RequestInitChain{ChainId: testChainID, AppStateBytes: bz})
	})
	require.Panics(t, func() {
		app.InitChain(abcitypes.RequestInitChain{AppStateBytes: bz})
	})
}
