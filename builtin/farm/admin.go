// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

// AddPool registers a pool for asset. Existing pools are refreshed first so the new
// weight only applies from now on. Arguments are checked in the order asset,
// duplicate, cutoff, weight.
func (f *Farm) AddPool(env *xenv.Environment, weight *big.Int, asset sfi.Address) (uint64, error) {
	if err := f.Require(env); err != nil {
		return 0, err
	}
	if asset.IsZero() {
		return 0, reverts.New(reverts.InvalidArgument, "invalid lpToken address")
	}
	if _, err := f.pools.Resolve(asset); err == nil {
		return 0, reverts.New(reverts.AlreadyExists, "lpToken already added")
	} else if !reverts.Is(err, reverts.NotFound) {
		return 0, err
	}
	cutoff, err := f.schedule.Cutoff()
	if err != nil {
		return 0, err
	}
	if env.Now() >= cutoff {
		return 0, reverts.New(reverts.Expired, "can't add pool after cutoff")
	}
	if weight == nil || weight.Sign() <= 0 {
		return 0, reverts.New(reverts.InvalidArgument, "can't add pool with 0 ap")
	}
	if err := f.UpdateAllPools(env); err != nil {
		return 0, err
	}
	pid, err := f.pools.Add(asset, weight, env.Now())
	if err != nil {
		return 0, err
	}
	env.Log(f.addr, "PoolAdded", []sfi.Bytes32{sfi.BytesToBytes32(asset.Bytes())}, pid, weight)
	metricPoolCount().Set(int64(pid + 1))
	logger.Info("pool added", "pid", pid, "asset", asset, "weight", weight)
	return pid, nil
}

// SetWeight changes the allocation weight of a pool.
func (f *Farm) SetWeight(env *xenv.Environment, pid uint64, weight *big.Int) error {
	if err := f.Require(env); err != nil {
		return err
	}
	if _, err := f.pools.Get(pid); err != nil {
		return err
	}
	if weight == nil || weight.Sign() <= 0 {
		return reverts.New(reverts.InvalidArgument, "can't set pool with 0 ap")
	}
	if err := f.UpdateAllPools(env); err != nil {
		return err
	}
	if err := f.pools.SetWeight(pid, weight); err != nil {
		return err
	}
	env.Log(f.addr, "PoolWeightSet", nil, pid, weight)
	logger.Info("pool weight set", "pid", pid, "weight", weight)
	return nil
}

// SetRate changes the reward per block after settling all pools at the old rate.
func (f *Farm) SetRate(env *xenv.Environment, rate *big.Int) error {
	if err := f.Require(env); err != nil {
		return err
	}
	if err := f.UpdateAllPools(env); err != nil {
		return err
	}
	return f.setRate(env, rate)
}

func (f *Farm) setRate(env *xenv.Environment, rate *big.Int) error {
	if err := f.schedule.SetRate(rate); err != nil {
		return err
	}
	env.Log(f.addr, "RewardPerBlockSet", nil, rate)
	logger.Info("reward per block set", "rate", rate)
	return nil
}

// SetCutoff moves the block after which nothing accrues.
func (f *Farm) SetCutoff(env *xenv.Environment, cutoff uint64) error {
	if err := f.Require(env); err != nil {
		return err
	}
	return f.setCutoff(env, cutoff)
}

func (f *Farm) setCutoff(env *xenv.Environment, cutoff uint64) error {
	if err := f.schedule.SetCutoff(env.Now(), cutoff); err != nil {
		return err
	}
	env.Log(f.addr, "RewardCutoffSet", nil, cutoff)
	logger.Info("reward cutoff set", "cutoff", cutoff)
	return nil
}

// SetRateAndCutoff changes both with a single refresh of all pools.
func (f *Farm) SetRateAndCutoff(env *xenv.Environment, rate *big.Int, cutoff uint64) error {
	if err := f.Require(env); err != nil {
		return err
	}
	if err := f.UpdateAllPools(env); err != nil {
		return err
	}
	if err := f.setRate(env, rate); err != nil {
		return err
	}
	return f.setCutoff(env, cutoff)
}

// SetRewarder changes the reserve holder paying rewards.
func (f *Farm) SetRewarder(env *xenv.Environment, rewarder sfi.Address) error {
	if err := f.Require(env); err != nil {
		return err
	}
	return f.schedule.SetRewarder(rewarder)
}
