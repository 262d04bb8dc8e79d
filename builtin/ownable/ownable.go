// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ownable provides single owner access control for builtin contracts.
package ownable

import (
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var slotOwner = sfi.Blake2b([]byte("owner"))

// Ownable keeps the owner of the contract at addr.
type Ownable struct {
	addr  sfi.Address
	owner *solidity.Address
}

func New(ctx *solidity.Context) *Ownable {
	return &Ownable{
		addr:  ctx.Address(),
		owner: solidity.NewAddress(ctx, slotOwner),
	}
}

// Init sets the initial owner without authorization. Used at genesis.
func (o *Ownable) Init(owner sfi.Address) {
	o.owner.Set(&owner)
}

func (o *Ownable) Owner() (sfi.Address, error) {
	return o.owner.Get()
}

// Require fails unless the caller of env is the owner.
func (o *Ownable) Require(env *xenv.Environment) error {
	owner, err := o.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || env.Caller() != owner {
		return reverts.New(reverts.Unauthorized, "Ownable: caller is not the owner")
	}
	return nil
}

// TransferOwnership hands ownership to newOwner.
func (o *Ownable) TransferOwnership(env *xenv.Environment, newOwner sfi.Address) error {
	if err := o.Require(env); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.New(reverts.InvalidArgument, "Ownable: new owner is invalid")
	}
	return o.set(env, newOwner)
}

// RenounceOwnership leaves the contract without owner. Owner only methods become unreachable.
func (o *Ownable) RenounceOwnership(env *xenv.Environment) error {
	if err := o.Require(env); err != nil {
		return err
	}
	return o.set(env, sfi.Address{})
}

func (o *Ownable) set(env *xenv.Environment, newOwner sfi.Address) error {
	prev, err := o.owner.Get()
	if err != nil {
		return err
	}
	o.owner.Set(&newOwner)
	env.Log(o.addr, "OwnershipTransferred", []sfi.Bytes32{
		sfi.BytesToBytes32(prev.Bytes()),
		sfi.BytesToBytes32(newOwner.Bytes()),
	})
	return nil
}
