// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/saffron-finance/sfi-farm/sfi"
)

// Amount is a non-negative 256-bit integer in decimal or 0x-prefixed hex.
type Amount struct {
	uint256.Int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", node.Line)
	}
	s := strings.ReplaceAll(node.Value, "_", "")
	var err error
	if strings.HasPrefix(s, "0x") {
		err = a.SetFromHex(s)
	} else {
		err = a.SetFromDecimal(s)
	}
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", node.Line, node.Value)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (any, error) {
	return a.Dec(), nil
}

// Big returns the amount as big.Int, nil for a nil Amount.
func (a *Amount) Big() *big.Int {
	if a == nil {
		return nil
	}
	return a.ToBig()
}

// NewAmount wraps a big.Int; it panics on negative or overflowing values.
func NewAmount(v *big.Int) *Amount {
	u, overflow := uint256.FromBig(v)
	if overflow || v.Sign() < 0 {
		panic("genesis: amount out of range")
	}
	return &Amount{*u}
}

// Balance is an initial holding of an asset.
type Balance struct {
	Asset   sfi.Address `yaml:"asset"`
	Address sfi.Address `yaml:"address"`
	Amount  *Amount     `yaml:"amount"`
}

// Pool is a staking pool created at block 0.
type Pool struct {
	Asset  sfi.Address `yaml:"asset"`
	Weight *Amount     `yaml:"weight"`
}

// Config is the genesis description of a farm network.
type Config struct {
	Name           string      `yaml:"name"`
	LaunchTime     uint64      `yaml:"launchTime"`
	Owner          sfi.Address `yaml:"owner"`
	RewardAsset    sfi.Address `yaml:"rewardAsset"`
	Reserve        *Amount     `yaml:"reserve"`
	RewardPerBlock *Amount     `yaml:"rewardPerBlock"`
	RewardCutoff   uint64      `yaml:"rewardCutoff"`
	Balances       []Balance   `yaml:"balances"`
	Pools          []Pool      `yaml:"pools"`
}

// Parse decodes a YAML genesis config and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the genesis config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Validate checks the config for values that would revert at block 0.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("owner must be set")
	}
	if c.RewardAsset.IsZero() {
		return errors.New("rewardAsset must be set")
	}
	if c.RewardPerBlock == nil {
		return errors.New("rewardPerBlock must be set")
	}
	if len(c.Pools) > 0 && c.RewardCutoff == 0 {
		return errors.New("rewardCutoff must be after block 0 when pools are configured")
	}
	for i, b := range c.Balances {
		if b.Asset.IsZero() || b.Address.IsZero() {
			return errors.Errorf("balances[%d]: asset and address must be set", i)
		}
		if b.Amount == nil || b.Amount.IsZero() {
			return errors.Errorf("balances[%d]: amount must be a non-zero integer", i)
		}
	}
	seen := make(map[sfi.Address]bool)
	for i, p := range c.Pools {
		if p.Asset.IsZero() {
			return errors.Errorf("pools[%d]: asset must be set", i)
		}
		if seen[p.Asset] {
			return errors.Errorf("pools[%d]: duplicated asset %v", i, p.Asset)
		}
		seen[p.Asset] = true
		if p.Weight == nil || p.Weight.IsZero() {
			return errors.Errorf("pools[%d]: weight must be a non-zero integer", i)
		}
	}
	return nil
}
