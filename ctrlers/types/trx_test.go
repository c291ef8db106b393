package types_test

import (
	"encoding/json"
	"github.com/holiman/uint256"
	ctrlertypes "github.com/rigochain/rigo-vote/ctrlers/types"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"github.com/stretchr/testify/require"
	"math/rand"
	"testing"
)

func TestTrxEncode(t *testing.T) {
	payloads := []ctrlertypes.ITrxPayload{
		&ctrlertypes.TrxPayloadRegisterVoter{Voter: types.RandAddress()},
		&ctrlertypes.TrxPayloadMakeProposal{Content: bytes.RandHexBytes(32), EndTime: rand.Uint64()},
		&ctrlertypes.TrxPayloadIncreaseProposalTime{ProposalID: rand.Uint32(), EndTime: rand.Uint64()},
		&ctrlertypes.TrxPayloadCancelProposal{ProposalID: rand.Uint32()},
		&ctrlertypes.TrxPayloadVote{ProposalID: rand.Uint32(), Aye: true, Amount: rand.Uint32()},
		&ctrlertypes.TrxPayloadUpdateVote{ProposalID: rand.Uint32(), Aye: false, Amount: rand.Uint32()},
		&ctrlertypes.TrxPayloadCancelVote{ProposalID: rand.Uint32()},
		&ctrlertypes.TrxPayloadFinishProposal{ProposalID: rand.Uint32()},
		&ctrlertypes.TrxPayloadUnlockBalance{ProposalID: rand.Uint32()},
		&ctrlertypes.TrxPayloadTransfer{To: types.RandAddress(), Amount: uint256.NewInt(rand.Uint64())},
		&ctrlertypes.TrxPayloadTransfer{To: types.RandAddress(), Amount: uint256.NewInt(0)},
	}

	for _, payload := range payloads {
		tx0 := ctrlertypes.NewTrx(1, types.RandAddress(), rand.Uint64(), payload)
		tx0.Sig = bytes.RandHexBytes(65)
		require.Equal(t, payload.Type(), tx0.GetType())
		require.NotEmpty(t, tx0.TypeString())

		bzTx0, xerr := tx0.Encode()
		require.NoError(t, xerr)

		tx1 := &ctrlertypes.Trx{}
		require.NoError(t, tx1.Decode(bzTx0))
		require.True(t, tx0.Equal(tx1), tx0.TypeString())

		bzTx1, xerr := tx1.Encode()
		require.NoError(t, xerr)
		require.Equal(t, bzTx0, bzTx1)
	}
}

func TestTrxDecode_WrongType(t *testing.T) {
	tx0 := ctrlertypes.NewTrx(1, types.RandAddress(), 1, &ctrlertypes.TrxPayloadCancelVote{ProposalID: 1})
	tx0.Type = 100

	bz, xerr := tx0.Encode()
	require.NoError(t, xerr)

	tx1 := &ctrlertypes.Trx{}
	xerr = tx1.Decode(bz)
	require.Error(t, xerr)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrx)
}

func TestSignAndVerifyTrx(t *testing.T) {
	prvKey, err := crypto.NewPrvKey()
	require.NoError(t, err)
	from := crypto.Pub2Addr(&prvKey.PublicKey)

	tx := ctrlertypes.NewTrx(1, from, 1, &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: true, Amount: 3})
	require.NoError(t, ctrlertypes.SignTrx(tx, prvKey, "test-chain"))

	addr, pubKey, xerr := ctrlertypes.VerifyTrx(tx, "test-chain")
	require.NoError(t, xerr)
	require.Equal(t, from, addr)
	require.Equal(t, crypto.CompressPubkey(&prvKey.PublicKey), pubKey)

	// another chain id
	_, _, xerr = ctrlertypes.VerifyTrx(tx, "other-chain")
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrxSig)

	// tampered payload
	tx.Payload = &ctrlertypes.TrxPayloadVote{ProposalID: 1, Aye: true, Amount: 4}
	_, _, xerr = ctrlertypes.VerifyTrx(tx, "test-chain")
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrxSig)
}

func TestAccount_Reserve(t *testing.T) {
	acct := ctrlertypes.NewAccount(types.RandAddress())
	require.NoError(t, acct.AddBalance(uint256.NewInt(100)))

	require.NoError(t, acct.Reserve(uint256.NewInt(30)))
	require.Equal(t, uint256.NewInt(70), acct.GetBalance())
	require.Equal(t, uint256.NewInt(30), acct.GetReserved())

	xerr := acct.Reserve(uint256.NewInt(71))
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientFund)
	require.Equal(t, uint256.NewInt(70), acct.GetBalance())
	require.Equal(t, uint256.NewInt(30), acct.GetReserved())

	xerr = acct.Unreserve(uint256.NewInt(31))
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientFund)

	require.NoError(t, acct.Unreserve(uint256.NewInt(30)))
	require.Equal(t, uint256.NewInt(100), acct.GetBalance())
	require.True(t, acct.GetReserved().IsZero())
}

func TestAccount_AddBalanceOverflow(t *testing.T) {
	acct := ctrlertypes.NewAccount(types.RandAddress())
	maxBalance := new(uint256.Int).SetAllOne()
	require.NoError(t, acct.AddBalance(maxBalance))

	xerr := acct.AddBalance(uint256.NewInt(1))
	require.ErrorIs(t, xerr, xerrors.ErrOverflow)
	require.Equal(t, maxBalance, acct.GetBalance())

	require.NoError(t, acct.SubBalance(uint256.NewInt(1)))
	require.NoError(t, acct.AddBalance(uint256.NewInt(1)))
	require.Equal(t, maxBalance, acct.GetBalance())
}

func TestAccount_Codec(t *testing.T) {
	acct0 := ctrlertypes.NewAccount(types.RandAddress())
	acct0.AddNonce()
	require.NoError(t, acct0.AddBalance(uint256.NewInt(rand.Uint64()|1)))
	require.NoError(t, acct0.Reserve(uint256.NewInt(1)))

	bz, xerr := acct0.Encode()
	require.NoError(t, xerr)

	acct1 := &ctrlertypes.Account{}
	require.NoError(t, acct1.Decode(bz))
	require.Equal(t, acct0.Key(), acct1.Key())
	require.Equal(t, acct0.GetNonce(), acct1.GetNonce())
	require.Equal(t, acct0.GetBalance(), acct1.GetBalance())
	require.Equal(t, acct0.GetReserved(), acct1.GetReserved())
}

func TestVotingParams_JSON(t *testing.T) {
	params0 := ctrlertypes.NewVotingParams(123)

	bz, err := json.Marshal(params0)
	require.NoError(t, err)

	params1 := &ctrlertypes.VotingParams{}
	require.NoError(t, json.Unmarshal(bz, params1))
	require.Equal(t, params0.Version(), params1.Version())
	require.Equal(t, int64(123), params1.RemovalThresholdBlocks())

	bz, xerr := params1.Encode()
	require.NoError(t, xerr)
	params2 := &ctrlertypes.VotingParams{}
	require.NoError(t, params2.Decode(bz))
	require.Equal(t, int64(123), params2.RemovalThresholdBlocks())
}
