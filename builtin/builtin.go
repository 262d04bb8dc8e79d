// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/saffron-finance/sfi-farm/builtin/farm"
	"github.com/saffron-finance/sfi-farm/builtin/rewarder"
	"github.com/saffron-finance/sfi-farm/builtin/token"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
)

// Builtin contracts binding.
var (
	Token    = &tokenContract{newContract("Token")}
	Rewarder = &rewarderContract{newContract("Rewarder")}
	Farm     = &farmContract{newContract("Farm")}
)

type (
	tokenContract    struct{ *contract }
	rewarderContract struct{ *contract }
	farmContract     struct{ *contract }
)

type contract struct {
	name    string
	Address sfi.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		sfi.BytesToAddress([]byte(name)),
	}
}

func (c *contract) Name() string {
	return c.name
}

func (t *tokenContract) Native(state *state.State) *token.Ledger {
	return token.New(t.Address, state, func(addr sfi.Address) token.Receiver {
		switch addr {
		case Farm.Address:
			return Farm.Native(state)
		case Rewarder.Address:
			return Rewarder.Native(state)
		}
		return nil
	})
}

func (r *rewarderContract) Native(state *state.State) *rewarder.Rewarder {
	return rewarder.New(r.Address, state, Token.Native(state))
}

func (f *farmContract) Native(state *state.State) *farm.Farm {
	return farm.New(f.Address, state, Token.Native(state), func(addr sfi.Address) farm.RewardGateway {
		if addr == Rewarder.Address {
			return Rewarder.Native(state)
		}
		return nil
	})
}

// Contracts returns all builtin contracts by address.
func Contracts() map[sfi.Address]string {
	return map[sfi.Address]string{
		Token.Address:    Token.name,
		Rewarder.Address: Rewarder.name,
		Farm.Address:     Farm.name,
	}
}
