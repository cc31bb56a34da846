// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

// Meter counts storage words touched by a contract during one operation.
type Meter struct {
	Loads  uint64
	Stores uint64
}

// Context binds storage variables to a contract address on a state.
type Context struct {
	address types.Address
	state   *state.State
	meter   *Meter
}

// NewContext creates a context. meter may be nil.
func NewContext(address types.Address, state *state.State, meter *Meter) *Context {
	return &Context{
		address: address,
		state:   state,
		meter:   meter,
	}
}

func (c *Context) Address() types.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) load(size int) {
	if c.meter != nil {
		c.meter.Loads += words(size)
	}
}

func (c *Context) store(size int) {
	if c.meter != nil {
		c.meter.Stores += words(size)
	}
}

func words(size int) uint64 {
	if size == 0 {
		return 1
	}
	return (uint64(size) + 31) / 32
}
