// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/saffron-finance/sfi-farm/builtin/farm/pool"
	"github.com/saffron-finance/sfi-farm/builtin/farm/position"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

// PoolInfo is the json view of a pool.
type PoolInfo struct {
	LpToken         sfi.Address           `json:"lpToken"`
	AllocPoint      *math.HexOrDecimal256 `json:"allocPoint"`
	LastRewardBlock uint64                `json:"lastRewardBlock"`
	AccSFIPerShare  *math.HexOrDecimal256 `json:"accSFIPerShare"`
}

func newPoolInfo(p *pool.Pool) *PoolInfo {
	return &PoolInfo{
		LpToken:         p.StakedAsset,
		AllocPoint:      (*math.HexOrDecimal256)(p.AllocationWeight),
		LastRewardBlock: p.LastSettledTime,
		AccSFIPerShare:  (*math.HexOrDecimal256)(p.AccRewardPerShare),
	}
}

// UserInfo is the json view of a position.
type UserInfo struct {
	Amount     *math.HexOrDecimal256 `json:"amount"`
	RewardDebt *math.HexOrDecimal256 `json:"rewardDebt"`
}

func newUserInfo(p *position.Position) *UserInfo {
	return &UserInfo{
		Amount:     (*math.HexOrDecimal256)(p.StakedAmount),
		RewardDebt: (*math.HexOrDecimal256)(p.RewardDebt),
	}
}

type pidArgs struct {
	Pid math.HexOrDecimal64 `json:"pid"`
}

type pidUserArgs struct {
	Pid  math.HexOrDecimal64 `json:"pid"`
	User sfi.Address         `json:"user"`
}

func init() {
	register(Farm.Address, []define{
		{"withdraw", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Pid    math.HexOrDecimal64   `json:"pid"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).Withdraw(env, uint64(args.Pid), bigOf(args.Amount))
		}},
		{"emergencyWithdraw", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args pidArgs
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).EmergencyWithdraw(env, uint64(args.Pid))
		}},
		{"updatePool", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args pidArgs
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			p, err := Farm.Native(env.State()).UpdatePool(env, uint64(args.Pid))
			if err != nil {
				return nil, err
			}
			return newPoolInfo(p), nil
		}},
		{"massUpdatePools", false, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return nil, Farm.Native(env.State()).UpdateAllPools(env)
		}},
		{"add", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				AllocPoint *math.HexOrDecimal256 `json:"allocPoint"`
				LpToken    sfi.Address           `json:"lpToken"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			pid, err := Farm.Native(env.State()).AddPool(env, bigOf(args.AllocPoint), args.LpToken)
			if err != nil {
				return nil, err
			}
			return pid, nil
		}},
		{"set", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Pid        math.HexOrDecimal64   `json:"pid"`
				AllocPoint *math.HexOrDecimal256 `json:"allocPoint"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).SetWeight(env, uint64(args.Pid), bigOf(args.AllocPoint))
		}},
		{"setRewardPerBlock", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				SFIPerBlock *math.HexOrDecimal256 `json:"sfiPerBlock"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).SetRate(env, bigOf(args.SFIPerBlock))
		}},
		{"setRewardCutoff", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				RewardCutoff math.HexOrDecimal64 `json:"rewardCutoff"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).SetCutoff(env, uint64(args.RewardCutoff))
		}},
		{"setRewardPerBlockAndRewardCutoff", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				SFIPerBlock  *math.HexOrDecimal256 `json:"sfiPerBlock"`
				RewardCutoff math.HexOrDecimal64   `json:"rewardCutoff"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).SetRateAndCutoff(env, bigOf(args.SFIPerBlock), uint64(args.RewardCutoff))
		}},
		{"setRewarder", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Rewarder sfi.Address `json:"rewarder"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).SetRewarder(env, args.Rewarder)
		}},
		{"transferOwnership", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				NewOwner sfi.Address `json:"newOwner"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Farm.Native(env.State()).TransferOwnership(env, args.NewOwner)
		}},
		{"renounceOwnership", false, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return nil, Farm.Native(env.State()).RenounceOwnership(env)
		}},
		{"owner", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Farm.Native(env.State()).Owner()
		}},
		{"pendingSFI", true, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args pidUserArgs
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			pending, err := Farm.Native(env.State()).PendingReward(env, uint64(args.Pid), args.User)
			if err != nil {
				return nil, err
			}
			return (*math.HexOrDecimal256)(pending), nil
		}},
		{"poolInfo", true, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args pidArgs
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			p, err := Farm.Native(env.State()).PoolInfo(uint64(args.Pid))
			if err != nil {
				return nil, err
			}
			return newPoolInfo(p), nil
		}},
		{"userInfo", true, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args pidUserArgs
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			p, err := Farm.Native(env.State()).UserInfo(uint64(args.Pid), args.User)
			if err != nil {
				return nil, err
			}
			return newUserInfo(p), nil
		}},
		{"poolLength", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Farm.Native(env.State()).PoolLength()
		}},
		{"lpTokenPID", true, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				LpToken sfi.Address `json:"lpToken"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return Farm.Native(env.State()).ResolvePool(args.LpToken)
		}},
		{"totalAllocPoint", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			total, err := Farm.Native(env.State()).TotalAllocationWeight()
			if err != nil {
				return nil, err
			}
			return (*math.HexOrDecimal256)(total), nil
		}},
		{"sfiPerBlock", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			rate, err := Farm.Native(env.State()).Rate()
			if err != nil {
				return nil, err
			}
			return (*math.HexOrDecimal256)(rate), nil
		}},
		{"rewardCutoff", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Farm.Native(env.State()).Cutoff()
		}},
		{"rewarder", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Farm.Native(env.State()).Rewarder()
		}},
	})
}
