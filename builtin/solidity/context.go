// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
)

// Context binds storage primitives to one contract address.
type Context struct {
	address sfi.Address
	state   *state.State
}

func NewContext(address sfi.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() sfi.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
