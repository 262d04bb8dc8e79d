// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/saffron-finance/sfi-farm/sfi"
)

type Address struct {
	context *Context
	pos     sfi.Bytes32
}

func NewAddress(context *Context, pos sfi.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (sfi.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return sfi.Address{}, err
	}
	return sfi.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr *sfi.Address) {
	var storage sfi.Bytes32
	if addr != nil {
		storage = sfi.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
