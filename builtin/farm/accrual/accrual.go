// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual holds the reward-per-share arithmetic shared by pool refreshes
// and pending reward queries. All functions are pure.
package accrual

import (
	"math/big"

	"github.com/saffron-finance/sfi-farm/sfi"
)

// Params are the emission parameters in effect for a refresh.
type Params struct {
	Now         uint64
	Cutoff      uint64
	Rate        *big.Int
	TotalWeight *big.Int
}

// EffectiveNow pins now at the cutoff.
func (p Params) EffectiveNow() uint64 {
	if p.Now >= p.Cutoff {
		return p.Cutoff
	}
	return p.Now
}

// Reward returns the emission owed to a pool of the given weight over elapsed blocks,
// before normalization by the total weight.
func Reward(elapsed uint64, rate, weight *big.Int) *big.Int {
	r := new(big.Int).SetUint64(elapsed)
	r.Mul(r, rate)
	return r.Mul(r, weight)
}

// Advance brings an accumulator current.
// It returns the new accumulator and settle time, and whether anything changed.
// Emission over a window with nothing staked is dropped, only the settle time moves.
func Advance(acc *big.Int, last uint64, weight, totalStaked *big.Int, p Params) (*big.Int, uint64, bool) {
	now := p.EffectiveNow()
	if now <= last {
		return acc, last, false
	}
	if totalStaked.Sign() == 0 || p.TotalWeight.Sign() == 0 {
		return acc, now, true
	}
	delta := Reward(now-last, p.Rate, weight)
	delta.Mul(delta, sfi.Precision)
	delta.Quo(delta, totalStaked)
	delta.Quo(delta, p.TotalWeight)
	return new(big.Int).Add(acc, delta), now, true
}

// Debt returns staked * acc / 10^18.
func Debt(staked, acc *big.Int) *big.Int {
	d := new(big.Int).Mul(staked, acc)
	return d.Quo(d, sfi.Precision)
}

// Pending returns the reward earned since the last settlement.
func Pending(staked, debt, acc *big.Int) *big.Int {
	p := Debt(staked, acc)
	return p.Sub(p, debt)
}
