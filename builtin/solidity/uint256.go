// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/saffron-finance/sfi-farm/sfi"
)

// Uint256 is a single word unsigned integer slot.
type Uint256 struct {
	context *Context
	pos     sfi.Bytes32
}

func NewUint256(context *Context, pos sfi.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, sfi.BytesToBytes32(value.Bytes()))
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	u.Set(storage)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Sub(storage, value)
	u.Set(storage)
	return nil
}

// Uint64 is a slot holding a block number or counter.
type Uint64 struct {
	Uint256
}

func NewUint64(context *Context, pos sfi.Bytes32) *Uint64 {
	return &Uint64{Uint256{context: context, pos: pos}}
}

func (u *Uint64) Get() (uint64, error) {
	v, err := u.Uint256.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	u.Uint256.Set(new(big.Int).SetUint64(value))
}
