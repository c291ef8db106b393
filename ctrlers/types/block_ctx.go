package types

import (
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type BlockContext struct {
	BlockInfo abcitypes.RequestBeginBlock `json:"blockInfo"`
	TxsCnt    int                         `json:"txsCnt"`
}

func NewBlockContext(bi abcitypes.RequestBeginBlock) *BlockContext {
	return &BlockContext{
		BlockInfo: bi,
	}
}

func (bctx *BlockContext) Height() int64 {
	return bctx.BlockInfo.Header.Height
}

func (bctx *BlockContext) TimeSeconds() int64 {
	return bctx.BlockInfo.Header.Time.Unix()
}
