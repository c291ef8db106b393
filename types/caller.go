package types

import abytes "github.com/rigochain/rigo-vote/types/bytes"

// Caller is an identity already authenticated by the node.
// Privileged is resolved outside of the controllers; they only branch on it.
type Caller struct {
	Address    Address
	Privileged bool
}

func NewCaller(addr Address, privileged bool) *Caller {
	return &Caller{
		Address:    addr,
		Privileged: privileged,
	}
}

func (c *Caller) Is(addr Address) bool {
	return abytes.Compare(c.Address, addr) == 0
}

func (c *Caller) String() string {
	return c.Address.String()
}
