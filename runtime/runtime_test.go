// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var (
	owner    = sfi.BytesToAddress([]byte("owner"))
	alice    = sfi.BytesToAddress([]byte("alice"))
	sfiAsset = sfi.BytesToAddress([]byte("sfi"))
	lp       = sfi.BytesToAddress([]byte("lp"))
)

func newState(t *testing.T, reserve int64) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	env := xenv.New(st, &xenv.BlockContext{}, &xenv.TransactionContext{}, owner)
	r := builtin.Rewarder.Native(st)
	r.Init(owner)
	require.NoError(t, r.SetRewardAsset(env, sfiAsset))
	require.NoError(t, r.SetStaking(env, builtin.Farm.Address))
	f := builtin.Farm.Native(st)
	require.NoError(t, f.Init(owner, builtin.Rewarder.Address, big.NewInt(10), 1000))
	_, err = f.AddPool(env, big.NewInt(100), lp)
	require.NoError(t, err)

	ledger := builtin.Token.Native(st)
	if reserve > 0 {
		require.NoError(t, ledger.Issue(sfiAsset, builtin.Rewarder.Address, big.NewInt(reserve)))
	}
	require.NoError(t, ledger.Issue(lp, alice, big.NewInt(10_000)))
	return st
}

func clause(to sfi.Address, method string, args any) *runtime.Clause {
	raw, _ := json.Marshal(args)
	return &runtime.Clause{To: to, Method: method, Args: raw}
}

func deposit(amount string) *runtime.Clause {
	return clause(builtin.Token.Address, "transfer", map[string]any{
		"asset": lp, "to": builtin.Farm.Address, "amount": amount,
	})
}

func TestExecute(t *testing.T) {
	st := newState(t, 1_000_000)

	rt := runtime.New(st, xenv.BlockContext{Number: 0})
	out, err := rt.Execute(deposit("1000"), &xenv.TransactionContext{Origin: alice})
	require.NoError(t, err)
	assert.False(t, out.Reverted)

	var names []string
	for _, ev := range out.Events {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"Transfer", "TokensDeposited"}, names)

	rt = runtime.New(st, xenv.BlockContext{Number: 10})
	out, err = rt.Call(clause(builtin.Farm.Address, "pendingSFI", map[string]any{"pid": 0, "user": alice}), alice)
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	assert.Equal(t, 0, big.NewInt(100).Cmp((*big.Int)(out.Return.(*math.HexOrDecimal256))))
}

func TestExecuteRevertDiscardsChanges(t *testing.T) {
	// empty reserve, so the reward payout fails
	st := newState(t, 0)

	rt := runtime.New(st, xenv.BlockContext{Number: 0})
	out, err := rt.Execute(deposit("1000"), &xenv.TransactionContext{Origin: alice})
	require.NoError(t, err)
	require.False(t, out.Reverted)

	rt = runtime.New(st, xenv.BlockContext{Number: 10})
	out, err = rt.Execute(clause(builtin.Farm.Address, "withdraw", map[string]any{"pid": 0, "amount": "1000"}),
		&xenv.TransactionContext{Origin: alice})
	require.NoError(t, err)
	assert.True(t, out.Reverted)
	assert.Equal(t, reverts.InsufficientFunds, out.RevertKind)
	assert.Empty(t, out.Events)

	f := builtin.Farm.Native(st)
	pos, err := f.UserInfo(0, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(1000).Cmp(pos.StakedAmount))
	p, err := f.PoolInfo(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.LastSettledTime)

	bal, err := builtin.Token.Native(st).BalanceOf(lp, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(9000).Cmp(bal))

	// emergency exit still returns principal
	out, err = rt.Execute(clause(builtin.Farm.Address, "emergencyWithdraw", map[string]any{"pid": 0}),
		&xenv.TransactionContext{Origin: alice})
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	bal, _ = builtin.Token.Native(st).BalanceOf(lp, alice)
	assert.Equal(t, 0, big.NewInt(10_000).Cmp(bal))
}

func TestCallIsReadOnly(t *testing.T) {
	st := newState(t, 1_000_000)
	rt := runtime.New(st, xenv.BlockContext{Number: 0})

	out, err := rt.Call(deposit("1000"), alice)
	require.NoError(t, err)
	assert.True(t, out.Reverted)
	assert.Equal(t, "write protection", out.RevertReason)

	out, err = rt.Call(clause(builtin.Farm.Address, "poolLength", nil), alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), out.Return)
}

func TestUnknownMethod(t *testing.T) {
	st := newState(t, 0)
	rt := runtime.New(st, xenv.BlockContext{})
	out, err := rt.Execute(clause(builtin.Farm.Address, "deposit", nil), &xenv.TransactionContext{Origin: alice})
	require.NoError(t, err)
	assert.True(t, out.Reverted)
	assert.Equal(t, reverts.NotFound, out.RevertKind)
}
