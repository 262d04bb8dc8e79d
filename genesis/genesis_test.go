// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/genesis"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
)

const testConfig = `
name: testnet
launchTime: 1600000000
owner: "0x000000000000000000000000000000000000000a"
rewardAsset: "0x00000000000000000000000000000000000000f1"
reserve: 1_000_000
rewardPerBlock: "0xa"
rewardCutoff: 1000
balances:
  - asset: "0x00000000000000000000000000000000000000e1"
    address: "0x000000000000000000000000000000000000000b"
    amount: 10000
pools:
  - asset: "0x00000000000000000000000000000000000000e1"
    weight: 100
  - asset: "0x00000000000000000000000000000000000000e2"
    weight: 50
`

func TestParse(t *testing.T) {
	cfg, err := genesis.Parse([]byte(testConfig))
	require.NoError(t, err)

	assert.Equal(t, "testnet", cfg.Name)
	assert.Equal(t, sfi.MustParseAddress("0x000000000000000000000000000000000000000a"), cfg.Owner)
	assert.Equal(t, big.NewInt(1_000_000), cfg.Reserve.Big())
	assert.Equal(t, big.NewInt(10), cfg.RewardPerBlock.Big())
	assert.Equal(t, uint64(1000), cfg.RewardCutoff)
	assert.Len(t, cfg.Balances, 1)
	assert.Len(t, cfg.Pools, 2)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no owner", `rewardAsset: "0x00000000000000000000000000000000000000f1"
rewardPerBlock: 1`},
		{"bad amount", `owner: "0x000000000000000000000000000000000000000a"
rewardAsset: "0x00000000000000000000000000000000000000f1"
rewardPerBlock: -1`},
		{"pools without cutoff", `owner: "0x000000000000000000000000000000000000000a"
rewardAsset: "0x00000000000000000000000000000000000000f1"
rewardPerBlock: 1
pools:
  - asset: "0x00000000000000000000000000000000000000e1"
    weight: 1`},
		{"zero weight", `owner: "0x000000000000000000000000000000000000000a"
rewardAsset: "0x00000000000000000000000000000000000000f1"
rewardPerBlock: 1
rewardCutoff: 10
pools:
  - asset: "0x00000000000000000000000000000000000000e1"
    weight: 0`},
		{"duplicated pool", `owner: "0x000000000000000000000000000000000000000a"
rewardAsset: "0x00000000000000000000000000000000000000f1"
rewardPerBlock: 1
rewardCutoff: 10
pools:
  - asset: "0x00000000000000000000000000000000000000e1"
    weight: 1
  - asset: "0x00000000000000000000000000000000000000e1"
    weight: 2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBuild(t *testing.T) {
	cfg, err := genesis.Parse([]byte(testConfig))
	require.NoError(t, err)
	gen, err := genesis.New(cfg)
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	events, err := gen.Build(state.New(db))
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	// reopen on the committed store
	st := state.New(db)

	rewarder := builtin.Rewarder.Native(st)
	asset, err := rewarder.RewardAsset()
	require.NoError(t, err)
	assert.Equal(t, cfg.RewardAsset, asset)
	staking, err := rewarder.Staking()
	require.NoError(t, err)
	assert.Equal(t, builtin.Farm.Address, staking)
	reserve, err := rewarder.Reserve()
	require.NoError(t, err)
	assert.Equal(t, 0, reserve.Cmp(big.NewInt(1_000_000)))

	f := builtin.Farm.Native(st)
	n, err := f.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	total, err := f.TotalAllocationWeight()
	require.NoError(t, err)
	assert.Equal(t, 0, total.Cmp(big.NewInt(150)))
	owner, err := f.Owner()
	require.NoError(t, err)
	assert.Equal(t, cfg.Owner, owner)
	cutoff, err := f.Cutoff()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cutoff)

	bal, err := builtin.Token.Native(st).BalanceOf(cfg.Balances[0].Asset, cfg.Balances[0].Address)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Cmp(big.NewInt(10000)))
}

func TestDevnet(t *testing.T) {
	gen := genesis.NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.Len(t, genesis.DevAccounts(), 5)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	_, err = gen.Build(st)
	require.NoError(t, err)

	pid, err := builtin.Farm.Native(st).ResolvePool(genesis.DevStakeAssetB)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), pid)
}
