// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

func init() {
	register(Rewarder.Address, []define{
		{"setSFIAddress", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				SFIAddress sfi.Address `json:"sfiAddress"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Rewarder.Native(env.State()).SetRewardAsset(env, args.SFIAddress)
		}},
		{"setStakingAddress", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Staking sfi.Address `json:"staking"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Rewarder.Native(env.State()).SetStaking(env, args.Staking)
		}},
		{"rewardUser", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				To     sfi.Address           `json:"to"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Rewarder.Native(env.State()).RewardUser(env, args.To, bigOf(args.Amount))
		}},
		{"emergencyWithdraw", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Token  sfi.Address           `json:"token"`
				To     sfi.Address           `json:"to"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Rewarder.Native(env.State()).EmergencyWithdraw(env, args.Token, args.To, bigOf(args.Amount))
		}},
		{"transferOwnership", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				NewOwner sfi.Address `json:"newOwner"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, Rewarder.Native(env.State()).TransferOwnership(env, args.NewOwner)
		}},
		{"renounceOwnership", false, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return nil, Rewarder.Native(env.State()).RenounceOwnership(env)
		}},
		{"owner", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Rewarder.Native(env.State()).Owner()
		}},
		{"sfiAddress", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Rewarder.Native(env.State()).RewardAsset()
		}},
		{"saffronStaking", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			return Rewarder.Native(env.State()).Staking()
		}},
		{"reserve", true, func(env *xenv.Environment, _ json.RawMessage) (any, error) {
			reserve, err := Rewarder.Native(env.State()).Reserve()
			if err != nil {
				return nil, err
			}
			return (*math.HexOrDecimal256)(reserve), nil
		}},
	})
}
