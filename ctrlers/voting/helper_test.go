package voting

import (
	"fmt"
	"github.com/holiman/uint256"
	cfg "github.com/rigochain/rigo-vote/cmd/config"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/ctrlers/voting/proposal"
	"github.com/rigochain/rigo-vote/genesis"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"testing"
)

// balanceMock keeps free and reserved balances in memory and records every call.
// It ignores `exec`.
type balanceMock struct {
	free     map[string]uint64
	reserved map[string]uint64
	calls    []string
}

func newBalanceMock() *balanceMock {
	return &balanceMock{
		free:     make(map[string]uint64),
		reserved: make(map[string]uint64),
	}
}

func (m *balanceMock) Reserve(addr types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	k := addr.String()
	if m.free[k] < amt.Uint64() {
		return xerrors.ErrInsufficientFund
	}
	m.free[k] -= amt.Uint64()
	m.reserved[k] += amt.Uint64()
	m.calls = append(m.calls, fmt.Sprintf("reserve:%v", amt.Uint64()))
	return nil
}

func (m *balanceMock) Unreserve(addr types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	k := addr.String()
	if m.reserved[k] < amt.Uint64() {
		return xerrors.ErrInsufficientFund
	}
	m.reserved[k] -= amt.Uint64()
	m.free[k] += amt.Uint64()
	m.calls = append(m.calls, fmt.Sprintf("unreserve:%v", amt.Uint64()))
	return nil
}

func (m *balanceMock) fund(addr types.Address, amt uint64) {
	m.free[addr.String()] += amt
}

func (m *balanceMock) reservedOf(addr types.Address) uint64 {
	return m.reserved[addr.String()]
}

func (m *balanceMock) freeOf(addr types.Address) uint64 {
	return m.free[addr.String()]
}

func (m *balanceMock) resetCalls() {
	m.calls = nil
}

var _ ctrlertypes.IBalanceHandler = (*balanceMock)(nil)

type testEnv struct {
	ctrler   *VotingCtrler
	balances *balanceMock
	root     types.Address
}

func newMemConfig() *cfg.Config {
	config := cfg.DefaultConfig()
	config.DBBackend = "memdb"
	return config
}

// newTestEnv creates a controller with `threshold` as the removal threshold and
// registers no voters.
func newTestEnv(t *testing.T, threshold int64) *testEnv {
	ctrler, xerr := NewVotingCtrler(newMemConfig(), log.NewNopLogger())
	require.NoError(t, xerr)

	root := types.RandAddress()
	require.NoError(t, ctrler.InitLedger(&genesis.GenesisAppState{
		RootAddress:  root,
		VotingParams: ctrlertypes.NewVotingParams(threshold),
	}))
	_, _, xerr = ctrler.Commit()
	require.NoError(t, xerr)

	t.Cleanup(func() { _ = ctrler.Close() })

	return &testEnv{
		ctrler:   ctrler,
		balances: newBalanceMock(),
		root:     root,
	}
}

func (env *testEnv) ctx(caller types.Address, height int64) *ctrlertypes.TrxContext {
	return &ctrlertypes.TrxContext{
		Height:         height,
		Exec:           true,
		Caller:         types.NewCaller(caller, caller.Equal(env.root)),
		BalanceHandler: env.balances,
	}
}

// newVoters registers n funded voters at `height`.
func (env *testEnv) newVoters(t *testing.T, n int, height int64) []types.Address {
	voters := make([]types.Address, n)
	for i := range voters {
		voters[i] = types.RandAddress()
		require.NoError(t, env.ctrler.RegisterVoter(env.ctx(env.root, height), voters[i]))
		env.balances.fund(voters[i], 1_000_000)
	}
	return voters
}

func (env *testEnv) makeProposal(t *testing.T, proposer types.Address, height, endTime int64) proposal.ProposalID {
	id, xerr := env.ctrler.MakeProposal(env.ctx(proposer, height), bytes.RandHexBytes(32), endTime)
	require.NoError(t, xerr)
	return id
}

func (env *testEnv) proposal(t *testing.T, id proposal.ProposalID) *proposal.Proposal {
	prop, xerr := env.ctrler.getProposal(id, true)
	require.NoError(t, xerr)
	return prop
}

func (env *testEnv) vote(voter types.Address, id proposal.ProposalID) *proposal.Vote {
	vote, xerr := env.ctrler.getVote(voter, id, true)
	if xerr != nil {
		return nil
	}
	return vote
}

func lastEvent(t *testing.T, ctx *ctrlertypes.TrxContext) (string, map[string]string) {
	require.NotEmpty(t, ctx.Events)
	evt := ctx.Events[len(ctx.Events)-1]
	require.Equal(t, EVENT_TYPE_VOTING, evt.Type)

	attrs := make(map[string]string)
	for _, a := range evt.Attributes {
		attrs[string(a.Key)] = string(a.Value)
	}
	return attrs[EVENT_ATTR_EVENT], attrs
}
