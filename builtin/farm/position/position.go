// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package position keeps per pool, per depositor stake records.
package position

import (
	"encoding/binary"
	"math/big"

	"github.com/saffron-finance/sfi-farm/builtin/farm/accrual"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/sfi"
)

var slotPositions = sfi.Blake2b([]byte("user-info"))

// Position is the stake of one depositor in one pool.
type Position struct {
	StakedAmount *big.Int
	RewardDebt   *big.Int
}

// Pending returns reward earned since the last settlement.
func (p *Position) Pending(acc *big.Int) *big.Int {
	return accrual.Pending(p.StakedAmount, p.RewardDebt, acc)
}

// Settle marks everything earned up to acc as paid.
func (p *Position) Settle(acc *big.Int) {
	p.RewardDebt = accrual.Debt(p.StakedAmount, acc)
}

// Ledger stores positions keyed by (pool id, depositor).
type Ledger struct {
	positions *solidity.Mapping[sfi.Bytes32, *Position]
}

func New(ctx *solidity.Context) *Ledger {
	return &Ledger{
		positions: solidity.NewMapping[sfi.Bytes32, *Position](ctx, slotPositions),
	}
}

func key(pid uint64, depositor sfi.Address) sfi.Bytes32 {
	return sfi.Blake2b(binary.BigEndian.AppendUint64(nil, pid), depositor.Bytes())
}

// Get returns the position, a zero one if the depositor never staked in the pool.
func (l *Ledger) Get(pid uint64, depositor sfi.Address) (*Position, error) {
	p, err := l.positions.Get(key(pid, depositor))
	if err != nil {
		return nil, err
	}
	if p.StakedAmount == nil {
		p.StakedAmount = new(big.Int)
	}
	if p.RewardDebt == nil {
		p.RewardDebt = new(big.Int)
	}
	return p, nil
}

func (l *Ledger) Save(pid uint64, depositor sfi.Address, p *Position) error {
	return l.positions.Set(key(pid, depositor), p)
}
