// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool keeps the ordered pool table of the farm, the staked asset index
// and the running sum of allocation weights.
package pool

import (
	"encoding/binary"
	"math/big"

	"github.com/saffron-finance/sfi-farm/builtin/farm/accrual"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/sfi"
)

var (
	slotPools       = sfi.Blake2b([]byte("pools"))
	slotAssetIndex  = sfi.Blake2b([]byte("asset-index"))
	slotLength      = sfi.Blake2b([]byte("pool-length"))
	slotTotalWeight = sfi.Blake2b([]byte("total-alloc-point"))
)

// Pool is one staking pool and its lazy accumulator.
type Pool struct {
	StakedAsset       sfi.Address
	AllocationWeight  *big.Int
	LastSettledTime   uint64
	AccRewardPerShare *big.Int
}

// Refresh brings the accumulator current. It reports whether the pool changed.
func (p *Pool) Refresh(totalStaked *big.Int, params accrual.Params) bool {
	acc, last, changed := accrual.Advance(p.AccRewardPerShare, p.LastSettledTime, p.AllocationWeight, totalStaked, params)
	p.AccRewardPerShare = acc
	p.LastSettledTime = last
	return changed
}

type poolKey uint64

func (k poolKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Registry the pool table.
type Registry struct {
	pools       *solidity.Mapping[poolKey, *Pool]
	assetIndex  *solidity.Mapping[sfi.Address, uint64]
	length      *solidity.Uint64
	totalWeight *solidity.BigInt
}

func New(ctx *solidity.Context) *Registry {
	return &Registry{
		pools:       solidity.NewMapping[poolKey, *Pool](ctx, slotPools),
		assetIndex:  solidity.NewMapping[sfi.Address, uint64](ctx, slotAssetIndex),
		length:      solidity.NewUint64(ctx, slotLength),
		totalWeight: solidity.NewBigInt(ctx, slotTotalWeight),
	}
}

// Length returns the number of pools.
func (r *Registry) Length() (uint64, error) {
	return r.length.Get()
}

// TotalWeight returns the sum of allocation weights of all pools.
func (r *Registry) TotalWeight() (*big.Int, error) {
	return r.totalWeight.Get()
}

// Get returns the pool of the given id.
func (r *Registry) Get(id uint64) (*Pool, error) {
	length, err := r.length.Get()
	if err != nil {
		return nil, err
	}
	if id >= length {
		return nil, reverts.New(reverts.NotFound, "non-existent pool")
	}
	p, err := r.pools.Get(poolKey(id))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save stores the pool of the given id.
func (r *Registry) Save(id uint64, p *Pool) error {
	return r.pools.Set(poolKey(id), p)
}

// Resolve returns the id of the pool staking asset.
func (r *Registry) Resolve(asset sfi.Address) (uint64, error) {
	idx, err := r.assetIndex.Get(asset)
	if err != nil {
		return 0, err
	}
	if idx == 0 {
		return 0, reverts.New(reverts.NotFound, "lpToken not found")
	}
	return idx - 1, nil
}

// Add appends a pool for asset settled at now.
func (r *Registry) Add(asset sfi.Address, weight *big.Int, now uint64) (uint64, error) {
	if asset.IsZero() {
		return 0, reverts.New(reverts.InvalidArgument, "invalid lpToken address")
	}
	if weight == nil || weight.Sign() <= 0 {
		return 0, reverts.New(reverts.InvalidArgument, "can't add pool with 0 ap")
	}
	idx, err := r.assetIndex.Get(asset)
	if err != nil {
		return 0, err
	}
	if idx != 0 {
		return 0, reverts.New(reverts.AlreadyExists, "lpToken already added")
	}
	id, err := r.length.Get()
	if err != nil {
		return 0, err
	}

	if err := r.totalWeight.Add(weight); err != nil {
		return 0, err
	}
	p := &Pool{
		StakedAsset:       asset,
		AllocationWeight:  new(big.Int).Set(weight),
		LastSettledTime:   now,
		AccRewardPerShare: new(big.Int),
	}
	if err := r.Save(id, p); err != nil {
		return 0, err
	}
	if err := r.assetIndex.Set(asset, id+1); err != nil {
		return 0, err
	}
	r.length.Set(id + 1)
	return id, nil
}

// SetWeight changes the allocation weight of a pool and adjusts the total by the delta.
func (r *Registry) SetWeight(id uint64, weight *big.Int) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	if weight == nil || weight.Sign() <= 0 {
		return reverts.New(reverts.InvalidArgument, "can't set pool with 0 ap")
	}
	if err := r.totalWeight.Sub(p.AllocationWeight); err != nil {
		return err
	}
	if err := r.totalWeight.Add(weight); err != nil {
		return err
	}
	p.AllocationWeight = new(big.Int).Set(weight)
	return r.Save(id, p)
}
