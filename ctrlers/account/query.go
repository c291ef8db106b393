package account

import (
	"encoding/json"
	"github.com/rigochain/rigo-vote/types"
	"github.com/rigochain/rigo-vote/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *AcctCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	addr := types.Address(req.Data)
	if len(addr) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}
	if acct := ctrler.ReadAccount(addr); acct == nil {
		return nil, xerrors.ErrNotFoundAccount
	} else if raw, err := json.Marshal(acct); err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	} else {
		return raw, nil
	}
}
