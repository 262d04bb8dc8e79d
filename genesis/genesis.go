// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

type genesisCall struct {
	to     sfi.Address
	method string
	args   any
}

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	name    string
	config  *Config
}

// New builds a genesis from the given config.
func New(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(cfg.LaunchTime).
		State(func(st *state.State) error {
			ledger := builtin.Token.Native(st)
			for _, b := range cfg.Balances {
				if err := ledger.Issue(b.Asset, b.Address, b.Amount.Big()); err != nil {
					return errors.Wrapf(err, "issue %v to %v", b.Asset, b.Address)
				}
			}
			if cfg.Reserve != nil && !cfg.Reserve.IsZero() {
				if err := ledger.Issue(cfg.RewardAsset, builtin.Rewarder.Address, cfg.Reserve.Big()); err != nil {
					return errors.Wrap(err, "fund reserve")
				}
			}

			builtin.Rewarder.Native(st).Init(cfg.Owner)
			return builtin.Farm.Native(st).Init(cfg.Owner, builtin.Rewarder.Address, cfg.RewardPerBlock.Big(), cfg.RewardCutoff)
		})

	calls := []genesisCall{
		{builtin.Rewarder.Address, "setSFIAddress", &struct {
			SFIAddress sfi.Address `json:"sfiAddress"`
		}{cfg.RewardAsset}},
		{builtin.Rewarder.Address, "setStakingAddress", &struct {
			Staking sfi.Address `json:"staking"`
		}{builtin.Farm.Address}},
	}
	for _, p := range cfg.Pools {
		calls = append(calls, genesisCall{builtin.Farm.Address, "add", &struct {
			AllocPoint *math.HexOrDecimal256 `json:"allocPoint"`
			LpToken    sfi.Address           `json:"lpToken"`
		}{(*math.HexOrDecimal256)(p.Weight.Big()), p.Asset}})
	}

	for _, c := range calls {
		data, err := json.Marshal(c.args)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", c.method)
		}
		builder.Call(&runtime.Clause{To: c.to, Method: c.method, Args: data}, cfg.Owner)
	}

	name := cfg.Name
	if name == "" {
		name = "customnet"
	}
	return &Genesis{builder, name, cfg}, nil
}

// Build commits the genesis state and returns the events emitted at block 0.
func (g *Genesis) Build(st *state.State) ([]*xenv.Event, error) {
	return g.builder.Build(st)
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Config returns the config the genesis was built from.
func (g *Genesis) Config() *Config {
	return g.config
}
