package proposal

import (
	"fmt"
	"github.com/holiman/uint256"
	"github.com/rigochain/rigo-vote/types/xerrors"
	"math"
)

// Decision is the direction of a vote and its magnitude.
type Decision struct {
	Aye    bool   `json:"aye"`
	Amount uint32 `json:"amount"`
}

func Aye(amt uint32) Decision {
	return Decision{Aye: true, Amount: amt}
}

func Nay(amt uint32) Decision {
	return Decision{Aye: false, Amount: amt}
}

func (d Decision) IsAye() bool {
	return d.Aye
}

func (d Decision) IsNay() bool {
	return !d.Aye
}

// Cost is the quadratic cost of the decision, Amount^2.
// It must fit in the magnitude type.
func (d Decision) Cost() (uint32, xerrors.XError) {
	sq := uint64(d.Amount) * uint64(d.Amount)
	if sq > math.MaxUint32 {
		return 0, xerrors.ErrOverflow.Wrapf("cost of %v", d)
	}
	return uint32(sq), nil
}

func (d Decision) CostAmount() (*uint256.Int, xerrors.XError) {
	c, xerr := d.Cost()
	if xerr != nil {
		return nil, xerr
	}
	return uint256.NewInt(uint64(c)), nil
}

func (d Decision) String() string {
	if d.Aye {
		return fmt.Sprintf("Aye(%d)", d.Amount)
	}
	return fmt.Sprintf("Nay(%d)", d.Amount)
}
