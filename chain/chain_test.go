// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/genesis"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
)

func newTestChain(t *testing.T) (*chain.Chain, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	c, err := chain.New(db, events, genesis.NewDevnet())
	require.NoError(t, err)
	return c, db
}

func clause(t *testing.T, to sfi.Address, method string, args any) *runtime.Clause {
	data, err := json.Marshal(args)
	require.NoError(t, err)
	return &runtime.Clause{To: to, Method: method, Args: data}
}

func depositClause(t *testing.T, amount *big.Int) *runtime.Clause {
	return clause(t, builtin.Token.Address, "transfer", map[string]any{
		"asset":  genesis.DevStakeAssetA,
		"to":     builtin.Farm.Address,
		"amount": (*math.HexOrDecimal256)(amount),
	})
}

func pending(t *testing.T, c *chain.Chain, user sfi.Address) *big.Int {
	out, err := c.Call(user, clause(t, builtin.Farm.Address, "pendingSFI", map[string]any{"pid": 0, "user": user}))
	require.NoError(t, err)
	require.False(t, out.Reverted, out.RevertReason)
	return (*big.Int)(out.Return.(*math.HexOrDecimal256))
}

func TestGenesisBlock(t *testing.T) {
	c, _ := newTestChain(t)
	best := c.BestBlock()
	assert.Equal(t, uint64(0), best.Number)
	assert.Equal(t, uint64(1), c.PendingBlock().Number)
	assert.Equal(t, "devnet", c.GenesisName())

	evs, err := c.Events().Filter(&eventdb.Filter{Name: "PoolAdded"})
	require.NoError(t, err)
	assert.Len(t, evs, 2)
}

func TestExecuteAndSeal(t *testing.T) {
	c, _ := newTestChain(t)
	alice := genesis.DevAccounts()[1].Address

	res, err := c.Execute(alice, depositClause(t, sfi.Units(100)))
	require.NoError(t, err)
	assert.False(t, res.Receipt.Reverted)
	assert.Equal(t, uint64(1), res.Receipt.BlockNumber)
	assert.Equal(t, uint32(2), res.Receipt.EventCount)

	_, err = c.GetReceipt(res.Receipt.TxID)
	assert.True(t, c.IsNotFound(err))

	b1, err := c.Seal(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b1.Number)
	assert.Equal(t, []sfi.Bytes32{res.Receipt.TxID}, b1.Txs)

	receipt, err := c.GetReceipt(res.Receipt.TxID)
	require.NoError(t, err)
	assert.Equal(t, res.Receipt, receipt)

	got, err := c.GetBlock(1)
	require.NoError(t, err)
	assert.Equal(t, b1, got)

	evs, err := c.Events().Filter(&eventdb.Filter{Name: "TokensDeposited"})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, alice, evs[0].TxOrigin)
	assert.Equal(t, uint64(1), evs[0].BlockNumber)
}

func TestPendingGrowsWithBlocks(t *testing.T) {
	c, _ := newTestChain(t)
	alice := genesis.DevAccounts()[1].Address

	_, err := c.Execute(alice, depositClause(t, sfi.Units(100)))
	require.NoError(t, err)
	_, err = c.Seal(10)
	require.NoError(t, err)

	// pool 0 holds 100 of 150 weight and alice is its only staker
	perBlock := new(big.Int).Div(new(big.Int).Mul(sfi.Units(1), big.NewInt(100)), big.NewInt(150))
	for i := 0; i < 3; i++ {
		_, err = c.Seal(uint64(20 + i))
		require.NoError(t, err)
	}
	// deposit at block 1, pending evaluated in block 5
	want := new(big.Int).Mul(perBlock, big.NewInt(4))
	got := pending(t, c, alice)
	diff := new(big.Int).Sub(want, got)
	assert.True(t, diff.CmpAbs(big.NewInt(1000)) <= 0, "want ~%v, got %v", want, got)
}

func TestCallBatch(t *testing.T) {
	c, _ := newTestChain(t)
	alice := genesis.DevAccounts()[1].Address

	_, err := c.Execute(alice, depositClause(t, sfi.Units(100)))
	require.NoError(t, err)
	_, err = c.Seal(10)
	require.NoError(t, err)

	args := map[string]any{"pid": 0, "user": alice}
	outs, block, err := c.CallBatch(alice, []*runtime.Clause{
		clause(t, builtin.Farm.Address, "userInfo", args),
		clause(t, builtin.Farm.Address, "pendingSFI", args),
	})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, c.PendingBlock(), block)
	assert.False(t, outs[0].Reverted)
	assert.Equal(t, sfi.Units(100), (*big.Int)(outs[0].Return.(*builtin.UserInfo).Amount))
	assert.Equal(t, pending(t, c, alice), (*big.Int)(outs[1].Return.(*math.HexOrDecimal256)))

	// later batches run in the next pending block
	_, err = c.Seal(20)
	require.NoError(t, err)
	_, block, err = c.CallBatch(alice, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), block.Number)
}

func TestRevertedClause(t *testing.T) {
	c, _ := newTestChain(t)
	alice := genesis.DevAccounts()[1].Address

	res, err := c.Execute(alice, clause(t, builtin.Farm.Address, "withdraw", map[string]any{"pid": 0, "amount": "1"}))
	require.NoError(t, err)
	assert.True(t, res.Receipt.Reverted)
	assert.Equal(t, reverts.InsufficientFunds, res.Receipt.RevertKind)
	assert.Zero(t, res.Receipt.EventCount)
}

func TestReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	defer events.Close()

	c, err := chain.New(db, events, genesis.NewDevnet())
	require.NoError(t, err)
	alice := genesis.DevAccounts()[1].Address
	_, err = c.Execute(alice, depositClause(t, sfi.Units(100)))
	require.NoError(t, err)
	_, err = c.Seal(10)
	require.NoError(t, err)

	c, err = chain.New(db, events, genesis.NewDevnet())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.BestBlock().Number)
	assert.Equal(t, uint64(2), c.PendingBlock().Number)

	out, err := c.Call(alice, clause(t, builtin.Farm.Address, "userInfo", map[string]any{"pid": 0, "user": alice}))
	require.NoError(t, err)
	require.False(t, out.Reverted)
}

func TestGenesisMismatch(t *testing.T) {
	_, db := newTestChain(t)
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	defer events.Close()

	cfg := *genesis.NewDevnet().Config()
	cfg.Name = "other"
	gen, err := genesis.New(&cfg)
	require.NoError(t, err)
	_, err = chain.New(db, events, gen)
	assert.Error(t, err)
}

func TestTicker(t *testing.T) {
	c, _ := newTestChain(t)
	ticker := c.NewTicker()
	select {
	case <-ticker:
		t.Fatal("ticked before seal")
	default:
	}
	_, err := c.Seal(1)
	require.NoError(t, err)
	select {
	case <-ticker:
	default:
		t.Fatal("no tick after seal")
	}
}
