package rpc

import (
	"encoding/json"
	"github.com/rigochain/rigo-vote/types/bytes"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/proto/tendermint/crypto"
)

// QueryResult renders the key as hex and the value as the raw json returned by the app.
type QueryResult struct {
	abcitypes.ResponseQuery
}

type queryResultJSON struct {
	Code      uint32           `json:"code,omitempty"`
	Log       string           `json:"log,omitempty"`
	Key       bytes.HexBytes   `json:"key,omitempty"`
	Value     json.RawMessage  `json:"value,omitempty"`
	ProofOps  *crypto.ProofOps `json:"proof_ops,omitempty"`
	Height    int64            `json:"height,omitempty"`
	Codespace string           `json:"codespace,omitempty"`
}

func (qr *QueryResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(&queryResultJSON{
		Code:      qr.Code,
		Log:       qr.Log,
		Key:       qr.Key,
		Value:     qr.Value,
		ProofOps:  qr.ProofOps,
		Height:    qr.Height,
		Codespace: qr.Codespace,
	})
}

func (qr *QueryResult) UnmarshalJSON(bz []byte) error {
	tmp := &queryResultJSON{}
	if err := json.Unmarshal(bz, tmp); err != nil {
		return err
	}

	qr.Code = tmp.Code
	qr.Log = tmp.Log
	qr.Key = tmp.Key
	qr.Value = tmp.Value
	qr.ProofOps = tmp.ProofOps
	qr.Height = tmp.Height
	qr.Codespace = tmp.Codespace
	return nil
}
