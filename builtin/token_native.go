// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

func init() {
	register(Token.Address, []define{
		{"transfer", false, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Asset  sfi.Address           `json:"asset"`
				To     sfi.Address           `json:"to"`
				Amount *math.HexOrDecimal256 `json:"amount"`
				Data   hexutil.Bytes         `json:"data"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			err := Token.Native(env.State()).Transfer(env, args.Asset, env.Caller(), args.To, bigOf(args.Amount), args.Data)
			return nil, err
		}},
		{"balanceOf", true, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Asset  sfi.Address `json:"asset"`
				Holder sfi.Address `json:"holder"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			bal, err := Token.Native(env.State()).BalanceOf(args.Asset, args.Holder)
			if err != nil {
				return nil, err
			}
			return (*math.HexOrDecimal256)(bal), nil
		}},
		{"totalSupply", true, func(env *xenv.Environment, raw json.RawMessage) (any, error) {
			var args struct {
				Asset sfi.Address `json:"asset"`
			}
			if err := parseArgs(raw, &args); err != nil {
				return nil, err
			}
			supply, err := Token.Native(env.State()).TotalSupply(args.Asset)
			if err != nil {
				return nil, err
			}
			return (*math.HexOrDecimal256)(supply), nil
		}},
	})
}

// bigOf converts a decoded json amount, nil stays nil.
func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
