package rpc

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"testing"
)

func TestQueryResult_JSON(t *testing.T) {
	qr := &QueryResult{abcitypes.ResponseQuery{
		Code:   0,
		Key:    []byte{0xab, 0xcd},
		Value:  []byte(`{"lastProposalId":3}`),
		Height: 12,
	}}

	bz, err := json.Marshal(qr)
	require.NoError(t, err)
	require.JSONEq(t, `{"key":"ABCD","value":{"lastProposalId":3},"height":12}`, string(bz))

	qr2 := &QueryResult{}
	require.NoError(t, json.Unmarshal(bz, qr2))
	require.Equal(t, qr.Key, qr2.Key)
	require.JSONEq(t, string(qr.Value), string(qr2.Value))
	require.Equal(t, qr.Height, qr2.Height)
}
