// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm implements the liquidity mining contract. Stakers deposit an asset
// into a pool by transferring it to the farm and earn the reward asset in proportion
// to their share of the pool over time.
package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/builtin/farm/accrual"
	"github.com/saffron-finance/sfi-farm/builtin/farm/pool"
	"github.com/saffron-finance/sfi-farm/builtin/farm/position"
	"github.com/saffron-finance/sfi-farm/builtin/farm/schedule"
	"github.com/saffron-finance/sfi-farm/builtin/ownable"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var logger = log.WithContext("pkg", "farm")

// AssetGateway moves and reports staked assets.
type AssetGateway interface {
	BalanceOf(asset, holder sfi.Address) (*big.Int, error)
	Transfer(env *xenv.Environment, asset, from, to sfi.Address, amount *big.Int, data []byte) error
}

// RewardGateway pays rewards in full or fails.
type RewardGateway interface {
	RewardUser(env *xenv.Environment, to sfi.Address, amount *big.Int) error
}

// RewarderResolver returns the reward gateway deployed at addr, or nil.
type RewarderResolver func(addr sfi.Address) RewardGateway

// Farm the staking contract.
type Farm struct {
	addr      sfi.Address
	schedule  *schedule.Schedule
	pools     *pool.Registry
	positions *position.Ledger
	assets    AssetGateway
	rewarders RewarderResolver
	*ownable.Ownable
}

// New creates a farm bound to the given state.
func New(addr sfi.Address, state *state.State, assets AssetGateway, rewarders RewarderResolver) *Farm {
	ctx := solidity.NewContext(addr, state)
	return &Farm{
		addr:      addr,
		schedule:  schedule.New(ctx),
		pools:     pool.New(ctx),
		positions: position.New(ctx),
		assets:    assets,
		rewarders: rewarders,
		Ownable:   ownable.New(ctx),
	}
}

func (f *Farm) Address() sfi.Address {
	return f.addr
}

// Init sets owner, rewarder, rate and cutoff. Used at genesis.
func (f *Farm) Init(owner, rewarder sfi.Address, rate *big.Int, cutoff uint64) error {
	f.Ownable.Init(owner)
	if err := f.schedule.SetRewarder(rewarder); err != nil {
		return err
	}
	if err := f.schedule.SetRate(rate); err != nil {
		return err
	}
	return f.schedule.SetCutoff(0, cutoff)
}

func (f *Farm) params(now uint64) (accrual.Params, error) {
	rate, err := f.schedule.Rate()
	if err != nil {
		return accrual.Params{}, err
	}
	cutoff, err := f.schedule.Cutoff()
	if err != nil {
		return accrual.Params{}, err
	}
	total, err := f.pools.TotalWeight()
	if err != nil {
		return accrual.Params{}, err
	}
	return accrual.Params{Now: now, Cutoff: cutoff, Rate: rate, TotalWeight: total}, nil
}

// poolBalance returns the farm's holding of the pool's staked asset.
func (f *Farm) poolBalance(p *pool.Pool) (*big.Int, error) {
	bal, err := f.assets.BalanceOf(p.StakedAsset, f.addr)
	if err != nil {
		return nil, errors.WithMessage(err, "pool balance")
	}
	return bal, nil
}

// refresh brings a pool current. pendingIn is the part of the farm's balance that
// arrived in the current operation and must not share in past emission.
func (f *Farm) refresh(pid uint64, params accrual.Params, pendingIn *big.Int) (*pool.Pool, error) {
	p, err := f.pools.Get(pid)
	if err != nil {
		return nil, err
	}
	if params.EffectiveNow() <= p.LastSettledTime {
		return p, nil
	}
	staked, err := f.poolBalance(p)
	if err != nil {
		return nil, err
	}
	if pendingIn != nil {
		staked = new(big.Int).Sub(staked, pendingIn)
		if staked.Sign() < 0 {
			return nil, reverts.New(reverts.InvalidArgument, "deposit not credited to pool")
		}
	}
	if p.Refresh(staked, params) {
		if err := f.pools.Save(pid, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdatePool brings the accumulator of a pool current.
func (f *Farm) UpdatePool(env *xenv.Environment, pid uint64) (*pool.Pool, error) {
	params, err := f.params(env.Now())
	if err != nil {
		return nil, err
	}
	return f.refresh(pid, params, nil)
}

// UpdateAllPools refreshes every pool. It runs before any rate or weight change
// so accrual under the old parameters is locked in.
func (f *Farm) UpdateAllPools(env *xenv.Environment) error {
	params, err := f.params(env.Now())
	if err != nil {
		return err
	}
	length, err := f.pools.Length()
	if err != nil {
		return err
	}
	for pid := uint64(0); pid < length; pid++ {
		if _, err := f.refresh(pid, params, nil); err != nil {
			return err
		}
	}
	return nil
}

func (f *Farm) payReward(env *xenv.Environment, to sfi.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return nil
	}
	addr, err := f.schedule.Rewarder()
	if err != nil {
		return err
	}
	gw := f.rewarders(addr)
	if gw == nil {
		return reverts.Newf(reverts.NotFound, "rewarder %v not found", addr)
	}
	if err := gw.RewardUser(env.WithCaller(f.addr), to, amount); err != nil {
		return err
	}
	metricRewardPaid().Add(1)
	return nil
}

// Deposit credits amount to the depositor's stake in a pool and pays out pending reward.
// The staked asset must already be held by the farm; it is excluded from the
// pool's total when settling past emission.
func (f *Farm) Deposit(env *xenv.Environment, pid uint64, depositor sfi.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "invalid amount")
	}
	params, err := f.params(env.Now())
	if err != nil {
		return err
	}
	p, err := f.refresh(pid, params, amount)
	if err != nil {
		return err
	}
	pos, err := f.positions.Get(pid, depositor)
	if err != nil {
		return err
	}
	pending := pos.Pending(p.AccRewardPerShare)

	pos.StakedAmount = new(big.Int).Add(pos.StakedAmount, amount)
	pos.Settle(p.AccRewardPerShare)
	if err := f.positions.Save(pid, depositor, pos); err != nil {
		return err
	}

	if err := f.payReward(env, depositor, pending); err != nil {
		return err
	}

	bal, err := f.poolBalance(p)
	if err != nil {
		return err
	}
	env.Log(f.addr, "TokensDeposited", []sfi.Bytes32{sfi.BytesToBytes32(depositor.Bytes())}, pid, amount, bal)
	metricDepositCount().AddWithLabel(1, map[string]string{"type": "deposit"})
	logger.Debug("deposited", "pid", pid, "user", depositor, "amount", amount, "pending", pending)
	return nil
}

// Withdraw returns amount of the staked asset to the caller and pays out pending reward.
// A zero amount only harvests.
func (f *Farm) Withdraw(env *xenv.Environment, pid uint64, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "invalid amount")
	}
	user := env.Caller()
	p, err := f.UpdatePool(env, pid)
	if err != nil {
		return err
	}
	pos, err := f.positions.Get(pid, user)
	if err != nil {
		return err
	}
	if pos.StakedAmount.Cmp(amount) < 0 {
		return reverts.New(reverts.InsufficientFunds, "can't withdraw more than user balance")
	}
	pending := pos.Pending(p.AccRewardPerShare)

	pos.StakedAmount = new(big.Int).Sub(pos.StakedAmount, amount)
	pos.Settle(p.AccRewardPerShare)
	if err := f.positions.Save(pid, user, pos); err != nil {
		return err
	}

	if err := f.payReward(env, user, pending); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if err := f.assets.Transfer(env.WithCaller(f.addr), p.StakedAsset, f.addr, user, amount, nil); err != nil {
			return err
		}
	}

	bal, err := f.poolBalance(p)
	if err != nil {
		return err
	}
	env.Log(f.addr, "TokensWithdrawn", []sfi.Bytes32{sfi.BytesToBytes32(user.Bytes())}, pid, amount, bal)
	metricDepositCount().AddWithLabel(1, map[string]string{"type": "withdraw"})
	logger.Debug("withdrawn", "pid", pid, "user", user, "amount", amount, "pending", pending)
	return nil
}

// EmergencyWithdraw returns the caller's whole stake without paying reward.
// Unsettled reward is forfeited.
func (f *Farm) EmergencyWithdraw(env *xenv.Environment, pid uint64) error {
	user := env.Caller()
	p, err := f.UpdatePool(env, pid)
	if err != nil {
		return err
	}
	pos, err := f.positions.Get(pid, user)
	if err != nil {
		return err
	}
	amount := pos.StakedAmount
	forfeited := pos.Pending(p.AccRewardPerShare)

	pos.StakedAmount = new(big.Int)
	pos.RewardDebt = new(big.Int)
	if err := f.positions.Save(pid, user, pos); err != nil {
		return err
	}

	if amount.Sign() > 0 {
		if err := f.assets.Transfer(env.WithCaller(f.addr), p.StakedAsset, f.addr, user, amount, nil); err != nil {
			return err
		}
	}

	bal, err := f.poolBalance(p)
	if err != nil {
		return err
	}
	env.Log(f.addr, "TokensEmergencyWithdrawn", []sfi.Bytes32{sfi.BytesToBytes32(user.Bytes())}, pid, amount, bal)
	metricDepositCount().AddWithLabel(1, map[string]string{"type": "emergency"})
	logger.Info("emergency withdrawn", "pid", pid, "user", user, "amount", amount, "forfeited", forfeited)
	return nil
}

// OnPayment deposits an incoming staked asset into its pool. The caller is the asset.
func (f *Farm) OnPayment(env *xenv.Environment, from sfi.Address, amount *big.Int, _ []byte) error {
	pid, err := f.pools.Resolve(env.Caller())
	if err != nil {
		return err
	}
	return f.Deposit(env, pid, from, amount)
}

// PendingReward returns the reward user would receive by a deposit or withdraw at the
// current block. Nothing is written.
func (f *Farm) PendingReward(env *xenv.Environment, pid uint64, user sfi.Address) (*big.Int, error) {
	p, err := f.pools.Get(pid)
	if err != nil {
		return nil, err
	}
	pos, err := f.positions.Get(pid, user)
	if err != nil {
		return nil, err
	}
	params, err := f.params(env.Now())
	if err != nil {
		return nil, err
	}
	staked, err := f.poolBalance(p)
	if err != nil {
		return nil, err
	}
	acc, _, _ := accrual.Advance(p.AccRewardPerShare, p.LastSettledTime, p.AllocationWeight, staked, params)
	return pos.Pending(acc), nil
}
