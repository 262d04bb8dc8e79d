// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/sfi"
)

// BigInt is a non-negative integer slot of unbounded width, stored rlp encoded.
type BigInt struct {
	context *Context
	pos     sfi.Bytes32
}

func NewBigInt(context *Context, pos sfi.Bytes32) *BigInt {
	return &BigInt{context: context, pos: pos}
}

func (b *BigInt) Get() (*big.Int, error) {
	value := new(big.Int)
	err := b.context.state.DecodeStorage(b.context.address, b.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value)
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value. A negative value is rejected.
func (b *BigInt) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("negative value")
	}
	if value.Sign() == 0 {
		b.context.state.SetRawStorage(b.context.address, b.pos, nil)
		return nil
	}
	return b.context.state.EncodeStorage(b.context.address, b.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (b *BigInt) Add(value *big.Int) error {
	storage, err := b.Get()
	if err != nil {
		return err
	}
	return b.Set(storage.Add(storage, value))
}

// Sub fails instead of going below zero.
func (b *BigInt) Sub(value *big.Int) error {
	storage, err := b.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errors.Errorf("subtraction underflow: %v - %v", storage, value)
	}
	return b.Set(storage.Sub(storage, value))
}
