// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule stores the global emission parameters of the farm.
package schedule

import (
	"math/big"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/sfi"
)

var (
	slotRate     = sfi.Blake2b([]byte("reward-per-block"))
	slotCutoff   = sfi.Blake2b([]byte("reward-cutoff"))
	slotRewarder = sfi.Blake2b([]byte("rewarder"))
)

// Schedule holds rate, cutoff and the reserve holder paying rewards.
// Callers are responsible for authority checks and for refreshing pools
// before the rate changes.
type Schedule struct {
	rate     *solidity.BigInt
	cutoff   *solidity.Uint64
	rewarder *solidity.Address
}

func New(ctx *solidity.Context) *Schedule {
	return &Schedule{
		rate:     solidity.NewBigInt(ctx, slotRate),
		cutoff:   solidity.NewUint64(ctx, slotCutoff),
		rewarder: solidity.NewAddress(ctx, slotRewarder),
	}
}

// Rate returns reward units emitted per block.
func (s *Schedule) Rate() (*big.Int, error) {
	return s.rate.Get()
}

func (s *Schedule) SetRate(rate *big.Int) error {
	if rate == nil || rate.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "invalid reward per block")
	}
	return s.rate.Set(rate)
}

// Cutoff returns the block after which nothing accrues.
func (s *Schedule) Cutoff() (uint64, error) {
	return s.cutoff.Get()
}

// SetCutoff moves the cutoff. It may not be set before now.
func (s *Schedule) SetCutoff(now, cutoff uint64) error {
	if cutoff < now {
		return reverts.New(reverts.InvalidArgument, "invalid rewardCutoff")
	}
	s.cutoff.Set(cutoff)
	return nil
}

func (s *Schedule) Rewarder() (sfi.Address, error) {
	return s.rewarder.Get()
}

func (s *Schedule) SetRewarder(addr sfi.Address) error {
	if addr.IsZero() {
		return reverts.New(reverts.InvalidArgument, "invalid rewarder")
	}
	s.rewarder.Set(&addr)
	return nil
}
