// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/saffron-finance/sfi-farm/builtin/farm/pool"
	"github.com/saffron-finance/sfi-farm/builtin/farm/position"
	"github.com/saffron-finance/sfi-farm/sfi"
)

func (f *Farm) PoolInfo(pid uint64) (*pool.Pool, error) {
	return f.pools.Get(pid)
}

func (f *Farm) PoolLength() (uint64, error) {
	return f.pools.Length()
}

// ResolvePool returns the id of the pool staking asset.
func (f *Farm) ResolvePool(asset sfi.Address) (uint64, error) {
	return f.pools.Resolve(asset)
}

func (f *Farm) UserInfo(pid uint64, user sfi.Address) (*position.Position, error) {
	if _, err := f.pools.Get(pid); err != nil {
		return nil, err
	}
	return f.positions.Get(pid, user)
}

func (f *Farm) TotalAllocationWeight() (*big.Int, error) {
	return f.pools.TotalWeight()
}

func (f *Farm) Rate() (*big.Int, error) {
	return f.schedule.Rate()
}

func (f *Farm) Cutoff() (uint64, error) {
	return f.schedule.Cutoff()
}

func (f *Farm) Rewarder() (sfi.Address, error) {
	return f.schedule.Rewarder()
}
