// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin/farm/accrual"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
)

var (
	assetA = sfi.BytesToAddress([]byte("a"))
	assetB = sfi.BytesToAddress([]byte("b"))
	assetC = sfi.BytesToAddress([]byte("c"))
)

func newRegistry(t *testing.T) *Registry {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(sfi.Address{1}, state.New(db)))
}

// weightSum checks sum(weights) == total weight.
func weightSum(t *testing.T, r *Registry) {
	length, err := r.Length()
	require.NoError(t, err)
	sum := new(big.Int)
	for i := uint64(0); i < length; i++ {
		p, err := r.Get(i)
		require.NoError(t, err)
		sum.Add(sum, p.AllocationWeight)
	}
	total, err := r.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Cmp(total), "sum %v total %v", sum, total)
}

func TestAdd(t *testing.T) {
	r := newRegistry(t)

	id, err := r.Add(assetA, big.NewInt(100), 5)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	weightSum(t, r)

	id, err = r.Add(assetB, big.NewInt(50), 7)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	weightSum(t, r)

	p, err := r.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, assetB, p.StakedAsset)
	assert.Equal(t, uint64(7), p.LastSettledTime)
	assert.Equal(t, 0, p.AccRewardPerShare.Sign())

	_, err = r.Add(assetA, big.NewInt(1), 8)
	assert.True(t, reverts.Is(err, reverts.AlreadyExists))
	_, err = r.Add(sfi.Address{}, big.NewInt(1), 8)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument))
	_, err = r.Add(assetC, big.NewInt(0), 8)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument))

	length, _ := r.Length()
	assert.Equal(t, uint64(2), length)
	total, _ := r.TotalWeight()
	assert.Equal(t, big.NewInt(150), total)
}

func TestResolveAndGet(t *testing.T) {
	r := newRegistry(t)
	_, err := r.Add(assetA, big.NewInt(1), 0)
	require.NoError(t, err)
	_, err = r.Add(assetB, big.NewInt(1), 0)
	require.NoError(t, err)

	id, err := r.Resolve(assetB)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	id, err = r.Resolve(assetA)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	_, err = r.Resolve(assetC)
	assert.True(t, reverts.Is(err, reverts.NotFound))
	_, err = r.Get(2)
	assert.True(t, reverts.Is(err, reverts.NotFound))
}

func TestSetWeight(t *testing.T) {
	r := newRegistry(t)
	_, err := r.Add(assetA, big.NewInt(100), 0)
	require.NoError(t, err)
	_, err = r.Add(assetB, big.NewInt(100), 0)
	require.NoError(t, err)

	assert.NoError(t, r.SetWeight(0, big.NewInt(300)))
	weightSum(t, r)
	assert.NoError(t, r.SetWeight(1, big.NewInt(1)))
	weightSum(t, r)
	total, _ := r.TotalWeight()
	assert.Equal(t, big.NewInt(301), total)

	assert.True(t, reverts.Is(r.SetWeight(2, big.NewInt(1)), reverts.NotFound))
	assert.True(t, reverts.Is(r.SetWeight(0, big.NewInt(0)), reverts.InvalidArgument))
	weightSum(t, r)
}

func TestTotalWeightWiderThanWord(t *testing.T) {
	r := newRegistry(t)
	half := new(big.Int).Lsh(big.NewInt(1), 255)

	_, err := r.Add(assetA, half, 0)
	require.NoError(t, err)
	_, err = r.Add(assetB, half, 0)
	require.NoError(t, err)
	weightSum(t, r)

	total, err := r.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(1), 256), total)

	require.NoError(t, r.SetWeight(1, new(big.Int).Lsh(big.NewInt(1), 300)))
	weightSum(t, r)
}

func TestRefresh(t *testing.T) {
	p := &Pool{
		StakedAsset:       assetA,
		AllocationWeight:  big.NewInt(100),
		AccRewardPerShare: new(big.Int),
	}
	params := accrual.Params{Now: 10, Cutoff: 100, Rate: big.NewInt(10), TotalWeight: big.NewInt(100)}

	assert.True(t, p.Refresh(big.NewInt(1000), params))
	assert.Equal(t, uint64(10), p.LastSettledTime)
	assert.Equal(t, 0, new(big.Int).Div(sfi.Precision, big.NewInt(10)).Cmp(p.AccRewardPerShare))

	assert.False(t, p.Refresh(big.NewInt(1000), params))
}
