// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

type receiverFunc func(env *xenv.Environment, from sfi.Address, amount *big.Int, data []byte) error

func (f receiverFunc) OnPayment(env *xenv.Environment, from sfi.Address, amount *big.Int, data []byte) error {
	return f(env, from, amount, data)
}

var (
	ledgerAddr = sfi.BytesToAddress([]byte("ledger"))
	asset      = sfi.BytesToAddress([]byte("asset"))
	alice      = sfi.BytesToAddress([]byte("alice"))
	bob        = sfi.BytesToAddress([]byte("bob"))
	contract   = sfi.BytesToAddress([]byte("contract"))
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestIssue(t *testing.T) {
	st := newState(t)
	l := New(ledgerAddr, st, nil)

	assert.NoError(t, l.Issue(asset, alice, big.NewInt(100)))
	assert.NoError(t, l.Issue(asset, bob, big.NewInt(50)))

	bal, err := l.BalanceOf(asset, alice)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(100), bal)

	supply, err := l.TotalSupply(asset)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(150), supply)

	assert.True(t, reverts.Is(l.Issue(asset, alice, big.NewInt(0)), reverts.InvalidArgument))
	assert.True(t, reverts.Is(l.Issue(sfi.Address{}, alice, big.NewInt(1)), reverts.InvalidArgument))
}

func TestTransfer(t *testing.T) {
	st := newState(t)
	l := New(ledgerAddr, st, nil)
	require.NoError(t, l.Issue(asset, alice, big.NewInt(100)))

	env := xenv.New(st, &xenv.BlockContext{}, &xenv.TransactionContext{}, alice)

	tests := []struct {
		name   string
		from   sfi.Address
		to     sfi.Address
		amount *big.Int
		kind   reverts.Kind
	}{
		{"zero from", sfi.Address{}, bob, big.NewInt(1), reverts.InvalidArgument},
		{"zero to", alice, sfi.Address{}, big.NewInt(1), reverts.InvalidArgument},
		{"zero amount", alice, bob, big.NewInt(0), reverts.InvalidArgument},
		{"negative amount", alice, bob, big.NewInt(-1), reverts.InvalidArgument},
		{"not owner", bob, alice, big.NewInt(1), reverts.Unauthorized},
		{"insufficient", alice, bob, big.NewInt(101), reverts.InsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Transfer(env, asset, tt.from, tt.to, tt.amount, nil)
			assert.True(t, reverts.Is(err, tt.kind), "got %v", err)
		})
	}

	require.NoError(t, l.Transfer(env, asset, alice, bob, big.NewInt(40), nil))
	bal, _ := l.BalanceOf(asset, alice)
	assert.Equal(t, big.NewInt(60), bal)
	bal, _ = l.BalanceOf(asset, bob)
	assert.Equal(t, big.NewInt(40), bal)

	events := env.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Transfer", events[0].Name)
	assert.Equal(t, ledgerAddr, events[0].Address)

	// draining a balance clears it
	require.NoError(t, l.Transfer(env, asset, alice, bob, big.NewInt(60), nil))
	bal, _ = l.BalanceOf(asset, alice)
	assert.Equal(t, 0, bal.Sign())
}

func TestTransferNotifiesReceiver(t *testing.T) {
	st := newState(t)

	var (
		gotCaller sfi.Address
		gotFrom   sfi.Address
		gotAmount *big.Int
		gotData   []byte
		balance   *big.Int
	)
	var l *Ledger
	l = New(ledgerAddr, st, func(addr sfi.Address) Receiver {
		if addr != contract {
			return nil
		}
		return receiverFunc(func(env *xenv.Environment, from sfi.Address, amount *big.Int, data []byte) error {
			gotCaller, gotFrom, gotAmount, gotData = env.Caller(), from, amount, data
			// the asset is already credited when the hook runs
			balance, _ = l.BalanceOf(env.Caller(), contract)
			return nil
		})
	})
	require.NoError(t, l.Issue(asset, alice, big.NewInt(100)))

	env := xenv.New(st, &xenv.BlockContext{}, &xenv.TransactionContext{}, alice)
	require.NoError(t, l.Transfer(env, asset, alice, contract, big.NewInt(30), []byte("memo")))

	assert.Equal(t, asset, gotCaller)
	assert.Equal(t, alice, gotFrom)
	assert.Equal(t, big.NewInt(30), gotAmount)
	assert.Equal(t, []byte("memo"), gotData)
	assert.Equal(t, big.NewInt(30), balance)
}

func TestTransferRejectedByReceiver(t *testing.T) {
	st := newState(t)
	rejection := errors.New("rejected")
	l := New(ledgerAddr, st, func(addr sfi.Address) Receiver {
		return receiverFunc(func(*xenv.Environment, sfi.Address, *big.Int, []byte) error {
			return rejection
		})
	})
	require.NoError(t, l.Issue(asset, alice, big.NewInt(100)))

	env := xenv.New(st, &xenv.BlockContext{}, &xenv.TransactionContext{}, alice)
	err := l.Transfer(env, asset, alice, contract, big.NewInt(30), nil)
	assert.ErrorIs(t, err, rejection)
}
