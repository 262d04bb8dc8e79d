// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewarder implements the reserve holder which custodies the reward asset
// and pays rewards on behalf of the staking contract.
package rewarder

import (
	"math/big"

	"github.com/saffron-finance/sfi-farm/builtin/ownable"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var (
	logger = log.WithContext("pkg", "rewarder")

	slotRewardAsset = sfi.Blake2b([]byte("reward-asset"))
	slotStaking     = sfi.Blake2b([]byte("staking"))
)

// AssetLedger is the asset ledger the reserve is held in.
type AssetLedger interface {
	BalanceOf(asset, holder sfi.Address) (*big.Int, error)
	Transfer(env *xenv.Environment, asset, from, to sfi.Address, amount *big.Int, data []byte) error
}

// Rewarder the reserve holder.
type Rewarder struct {
	addr        sfi.Address
	ledger      AssetLedger
	rewardAsset *solidity.Address
	staking     *solidity.Address
	*ownable.Ownable
}

func New(addr sfi.Address, state *state.State, ledger AssetLedger) *Rewarder {
	ctx := solidity.NewContext(addr, state)
	return &Rewarder{
		addr:        addr,
		ledger:      ledger,
		rewardAsset: solidity.NewAddress(ctx, slotRewardAsset),
		staking:     solidity.NewAddress(ctx, slotStaking),
		Ownable:     ownable.New(ctx),
	}
}

func (r *Rewarder) Address() sfi.Address {
	return r.addr
}

// RewardAsset returns the asset paid as reward.
func (r *Rewarder) RewardAsset() (sfi.Address, error) {
	return r.rewardAsset.Get()
}

// Staking returns the only contract allowed to request payouts.
func (r *Rewarder) Staking() (sfi.Address, error) {
	return r.staking.Get()
}

// Reserve returns the remaining balance of the reward asset.
func (r *Rewarder) Reserve() (*big.Int, error) {
	asset, err := r.rewardAsset.Get()
	if err != nil {
		return nil, err
	}
	return r.ledger.BalanceOf(asset, r.addr)
}

func (r *Rewarder) SetRewardAsset(env *xenv.Environment, asset sfi.Address) error {
	if err := r.Require(env); err != nil {
		return err
	}
	if asset.IsZero() {
		return reverts.New(reverts.InvalidArgument, "invalid reward asset")
	}
	r.rewardAsset.Set(&asset)
	return nil
}

func (r *Rewarder) SetStaking(env *xenv.Environment, staking sfi.Address) error {
	if err := r.Require(env); err != nil {
		return err
	}
	if staking.IsZero() {
		return reverts.New(reverts.InvalidArgument, "invalid staking address")
	}
	r.staking.Set(&staking)
	return nil
}

// RewardUser pays amount of the reward asset to the given account in full.
func (r *Rewarder) RewardUser(env *xenv.Environment, to sfi.Address, amount *big.Int) error {
	staking, err := r.staking.Get()
	if err != nil {
		return err
	}
	if staking.IsZero() || env.Caller() != staking {
		return reverts.New(reverts.Unauthorized, "requires staking pool")
	}
	asset, err := r.rewardAsset.Get()
	if err != nil {
		return err
	}
	if asset.IsZero() {
		return reverts.New(reverts.NotFound, "reward asset not set")
	}
	if err := r.ledger.Transfer(env.WithCaller(r.addr), asset, r.addr, to, amount, nil); err != nil {
		return err
	}
	env.Log(r.addr, "UserRewarded", []sfi.Bytes32{sfi.BytesToBytes32(to.Bytes())}, amount)
	logger.Debug("user rewarded", "to", to, "amount", amount)
	return nil
}

// EmergencyWithdraw drains amount of any asset held by the reserve. Owner only.
func (r *Rewarder) EmergencyWithdraw(env *xenv.Environment, asset, to sfi.Address, amount *big.Int) error {
	if err := r.Require(env); err != nil {
		return err
	}
	if err := r.ledger.Transfer(env.WithCaller(r.addr), asset, r.addr, to, amount, nil); err != nil {
		return err
	}
	logger.Warn("reserve drained", "asset", asset, "to", to, "amount", amount)
	return nil
}

// OnPayment accepts only the reward asset.
func (r *Rewarder) OnPayment(env *xenv.Environment, from sfi.Address, amount *big.Int, _ []byte) error {
	asset, err := r.rewardAsset.Get()
	if err != nil {
		return err
	}
	if asset.IsZero() || env.Caller() != asset {
		return reverts.New(reverts.InvalidArgument, "not reward asset")
	}
	logger.Debug("reserve funded", "from", from, "amount", amount)
	return nil
}
