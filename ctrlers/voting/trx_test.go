package voting

import (
	"encoding/json"
	"github.com/holiman/uint256"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"math"
	"strconv"
	"testing"
)

func (env *testEnv) trxCtx(from types.Address, height int64, payload ctrlertypes.ITrxPayload) *ctrlertypes.TrxContext {
	ctx := env.ctx(from, height)
	ctx.Tx = ctrlertypes.NewTrx(1, from, 1, payload)
	return ctx
}

func TestValidateTrx(t *testing.T) {
	env := newTestEnv(t, 10)
	from := types.RandAddress()

	cases := []struct {
		payload ctrlertypes.ITrxPayload
		err     xerrors.XError
	}{
		{&ctrlertypes.TrxPayloadRegisterVoter{Voter: types.RandAddress()}, nil},
		{&ctrlertypes.TrxPayloadRegisterVoter{Voter: bytes.RandHexBytes(19)}, xerrors.ErrInvalidTrx},
		{&ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: 10}, nil},
		{&ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(31), EndTime: 10}, xerrors.ErrInvalidTrx},
		{&ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: math.MaxUint64}, xerrors.ErrTimePeriodTooLow},
		{&ctrlertypes.TrxPayloadIncreaseProposalTime{ProposalID: 1, EndTime: 10}, nil},
		{&ctrlertypes.TrxPayloadIncreaseProposalTime{ProposalID: 1, EndTime: math.MaxUint64}, xerrors.ErrTimePeriodTooLow},
		{&ctrlertypes.TrxPayloadCancelProposal{ProposalID: 1}, nil},
		{&ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: true, Amount: 1}, nil},
		{&ctrlertypes.TrxPayloadUpdateVote{ProposalID: 1, Aye: false, Amount: 1}, nil},
		{&ctrlertypes.TrxPayloadCancelVote{ProposalID: 1}, nil},
		{&ctrlertypes.TrxPayloadFinishProposal{ProposalID: 1}, nil},
		{&ctrlertypes.TrxPayloadUnlockBalance{ProposalID: 1}, nil},
	}
	for i, c := range cases {
		xerr := env.ctrler.ValidateTrx(env.trxCtx(from, 1, c.payload))
		if c.err == nil {
			require.NoError(t, xerr, "case %d", i)
		} else {
			require.ErrorIs(t, xerr, c.err, "case %d", i)
		}
	}

	ctx := env.trxCtx(from, 1, &ctrlertypes.TrxPayloadCancelVote{ProposalID: 1})
	ctx.Caller = nil
	require.ErrorIs(t, env.ctrler.ValidateTrx(ctx), xerrors.ErrInvalidTrx)

	// the type does not match the payload
	ctx = env.trxCtx(from, 1, &ctrlertypes.TrxPayloadCancelVote{ProposalID: 1})
	ctx.Tx.Type = ctrlertypes.TRX_VOTE
	require.ErrorIs(t, env.ctrler.ValidateTrx(ctx), xerrors.ErrInvalidTrxPayloadType)

	ctx.Tx.Type = 100
	require.ErrorIs(t, env.ctrler.ValidateTrx(ctx), xerrors.ErrInvalidTrxType)

	// transfers belong to the account controller
	ctx = env.trxCtx(from, 1, &ctrlertypes.TrxPayloadTransfer{To: types.RandAddress(), Amount: uint256.NewInt(1)})
	require.Equal(t, xerrors.ErrUnknownTrxType, env.ctrler.ValidateTrx(ctx))
	require.Equal(t, xerrors.ErrUnknownTrxType, env.ctrler.ExecuteTrx(ctx))
}

func TestExecuteTrx(t *testing.T) {
	env := newTestEnv(t, 1)
	voter := types.RandAddress()
	env.balances.fund(voter, 1_000)

	run := func(from types.Address, height int64, payload ctrlertypes.ITrxPayload) (*ctrlertypes.TrxContext, xerrors.XError) {
		ctx := env.trxCtx(from, height, payload)
		if xerr := env.ctrler.ValidateTrx(ctx); xerr != nil {
			return ctx, xerr
		}
		return ctx, env.ctrler.ExecuteTrx(ctx)
	}

	_, xerr := run(voter, 1, &ctrlertypes.TrxPayloadRegisterVoter{Voter: voter})
	require.ErrorIs(t, xerr, xerrors.ErrBadOrigin)
	_, xerr = run(env.root, 1, &ctrlertypes.TrxPayloadRegisterVoter{Voter: voter})
	require.NoError(t, xerr)

	ctx, xerr := run(voter, 2, &ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: 20})
	require.NoError(t, xerr)
	name, attrs := lastEvent(t, ctx)
	require.Equal(t, EventProposalSubmitted, name)
	id, err := strconv.ParseUint(attrs[EVENT_ATTR_PROPOSAL_ID], 10, 32)
	require.NoError(t, err)
	pid := proposal.ProposalID(id)

	_, xerr = run(voter, 3, &ctrlertypes.TrxPayloadIncreaseProposalTime{ProposalID: pid, EndTime: 30})
	require.NoError(t, xerr)
	_, xerr = run(voter, 4, &ctrlertypes.TrxPayloadVote{ProposalID: pid, Aye: false, Amount: 3})
	require.NoError(t, xerr)
	_, xerr = run(voter, 5, &ctrlertypes.TrxPayloadUpdateVote{ProposalID: pid, Aye: true, Amount: 2})
	require.NoError(t, xerr)
	_, xerr = run(voter, 6, &ctrlertypes.TrxPayloadCancelVote{ProposalID: pid})
	require.NoError(t, xerr)
	_, xerr = run(voter, 7, &ctrlertypes.TrxPayloadVote{ProposalID: pid, Aye: true, Amount: 4})
	require.NoError(t, xerr)
	require.Equal(t, uint64(16), env.balances.reservedOf(voter))

	_, xerr = run(voter, 30, &ctrlertypes.TrxPayloadFinishProposal{ProposalID: pid})
	require.ErrorIs(t, xerr, xerrors.ErrProposalAlreadyEnded)
	ctx, xerr = run(voter, 31, &ctrlertypes.TrxPayloadFinishProposal{ProposalID: pid})
	require.NoError(t, xerr)
	name, attrs = lastEvent(t, ctx)
	require.Equal(t, EventProposalEnded, name)
	require.Equal(t, proposal.Passed.String(), attrs[EVENT_ATTR_STATUS])

	_, xerr = run(voter, 32, &ctrlertypes.TrxPayloadUnlockBalance{ProposalID: pid})
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), env.balances.reservedOf(voter))
	require.Equal(t, uint64(1_000), env.balances.freeOf(voter))

	pid2 := env.makeProposal(t, voter, 33, 40)
	_, xerr = run(voter, 34, &ctrlertypes.TrxPayloadCancelProposal{ProposalID: pid2})
	require.NoError(t, xerr)
	require.Equal(t, proposal.Canceled, env.proposal(t, pid2).Status)
}

func TestQuery(t *testing.T) {
	env := newTestEnv(t, 10)
	voter := env.newVoters(t, 1, 1)[0]
	id := env.makeProposal(t, voter, 1, 100)
	require.NoError(t, env.ctrler.CastVote(env.ctx(voter, 2), id, proposal.Nay(2)))
	_, _, xerr := env.ctrler.Commit()
	require.NoError(t, xerr)

	query := func(path string, data []byte) ([]byte, xerrors.XError) {
		return env.ctrler.Query(abcitypes.RequestQuery{Path: path, Data: data})
	}

	raw, xerr := query(QUERY_VOTER, voter)
	require.NoError(t, xerr)
	voterRet := &VoterQueryResult{}
	require.NoError(t, json.Unmarshal(raw, voterRet))
	require.True(t, voterRet.Registered)
	require.Equal(t, voter, voterRet.Address)

	raw, xerr = query(QUERY_VOTER, types.RandAddress())
	require.NoError(t, xerr)
	require.NoError(t, json.Unmarshal(raw, voterRet))
	require.False(t, voterRet.Registered)

	_, xerr = query(QUERY_VOTER, bytes.RandBytes(3))
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryParams)

	raw, xerr = query(QUERY_PROPOSAL, []byte(strconv.FormatUint(uint64(id), 10)))
	require.NoError(t, xerr)
	prop := &proposal.Proposal{}
	require.NoError(t, json.Unmarshal(raw, prop))
	require.Equal(t, id, prop.ID)
	require.Equal(t, voter, prop.Proposer)
	require.Equal(t, proposal.InProgress, prop.Status)
	require.Equal(t, uint32(2), prop.Nays)

	_, xerr = query(QUERY_PROPOSAL, []byte("abc"))
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryParams)
	_, xerr = query(QUERY_PROPOSAL, []byte("77"))
	require.ErrorIs(t, xerr, xerrors.ErrProposalNotFound)

	env.makeProposal(t, voter, 3, 100)
	_, _, xerr = env.ctrler.Commit()
	require.NoError(t, xerr)
	raw, xerr = query(QUERY_PROPOSALS, nil)
	require.NoError(t, xerr)
	var props []*proposal.Proposal
	require.NoError(t, json.Unmarshal(raw, &props))
	require.Len(t, props, 2)
	require.Equal(t, proposal.ProposalID(1), props[0].ID)
	require.Equal(t, proposal.ProposalID(2), props[1].ID)

	params, err := json.Marshal(&VoteQueryParams{Voter: voter, ProposalID: id})
	require.NoError(t, err)
	raw, xerr = query(QUERY_VOTE, params)
	require.NoError(t, xerr)
	vote := &proposal.Vote{}
	require.NoError(t, json.Unmarshal(raw, vote))
	require.Equal(t, proposal.Nay(2), vote.Decision)
	require.True(t, vote.Locked)

	params, err = json.Marshal(&VoteQueryParams{Voter: types.RandAddress(), ProposalID: id})
	require.NoError(t, err)
	_, xerr = query(QUERY_VOTE, params)
	require.ErrorIs(t, xerr, xerrors.ErrVoteNotFound)

	raw, xerr = query(QUERY_COUNTER, nil)
	require.NoError(t, xerr)
	st := &proposal.VotingState{}
	require.NoError(t, json.Unmarshal(raw, st))
	require.Equal(t, proposal.ProposalID(2), st.LastProposalID)

	raw, xerr = query(QUERY_PARAMS, nil)
	require.NoError(t, xerr)
	require.JSONEq(t, `{"version":"1","removalThresholdBlocks":"10"}`, string(raw))

	_, xerr = query("unknown", nil)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryPath)
}

func TestCommit_Reopen(t *testing.T) {
	config := newMemConfig()
	config.DBBackend = "goleveldb"
	config.SetRoot(t.TempDir())

	ctrler, xerr := NewVotingCtrler(config, log.NewNopLogger())
	require.NoError(t, xerr)
	voter := types.RandAddress()
	root := types.RandAddress()
	require.NoError(t, ctrler.InitLedger(&genesis.GenesisAppState{
		RootAddress:  root,
		Voters:       []types.Address{voter},
		VotingParams: ctrlertypes.NewVotingParams(7),
	}))
	// a voter can not be listed twice
	require.ErrorIs(t, ctrler.InitLedger(&genesis.GenesisAppState{
		RootAddress: root,
		Voters:      []types.Address{voter},
	}), xerrors.ErrInitChain)

	ctx := &ctrlertypes.TrxContext{
		Height:         1,
		Exec:           true,
		Caller:         types.NewCaller(voter, false),
		BalanceHandler: newBalanceMock(),
	}
	id, xerr := ctrler.MakeProposal(ctx, bytes.RandHexBytes(32), 10)
	require.NoError(t, xerr)

	hash0, ver0, xerr := ctrler.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ver0)
	require.NotEmpty(t, hash0)
	require.NoError(t, ctrler.Close())

	ctrler, xerr = NewVotingCtrler(config, log.NewNopLogger())
	require.NoError(t, xerr)
	defer ctrler.Close()

	require.Equal(t, int64(7), ctrler.Params().RemovalThresholdBlocks())
	require.True(t, ctrler.IsRegistered(voter))
	prop, xerr := ctrler.ReadProposal(id)
	require.NoError(t, xerr)
	require.Equal(t, int64(10), prop.EndTime)
	st, xerr := ctrler.ReadState()
	require.NoError(t, xerr)
	require.Equal(t, id, st.LastProposalID)
}
