// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewarder_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/rewarder"
	"github.com/saffron-finance/sfi-farm/builtin/token"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var (
	ledgerAddr   = sfi.BytesToAddress([]byte("ledger"))
	rewarderAddr = sfi.BytesToAddress([]byte("rewarder"))
	stakingAddr  = sfi.BytesToAddress([]byte("staking"))
	sfiAsset     = sfi.BytesToAddress([]byte("sfi"))
	otherAsset   = sfi.BytesToAddress([]byte("other"))
	owner        = sfi.BytesToAddress([]byte("owner"))
	user         = sfi.BytesToAddress([]byte("user"))
)

type fixture struct {
	st     *state.State
	ledger *token.Ledger
	r      *rewarder.Rewarder
	env    *xenv.Environment
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	f := &fixture{st: st}
	f.ledger = token.New(ledgerAddr, st, func(addr sfi.Address) token.Receiver {
		if addr == rewarderAddr {
			return f.r
		}
		return nil
	})
	f.r = rewarder.New(rewarderAddr, st, f.ledger)
	f.r.Init(owner)
	f.env = xenv.New(st, &xenv.BlockContext{}, &xenv.TransactionContext{Origin: owner}, owner)

	require.NoError(t, f.r.SetRewardAsset(f.env, sfiAsset))
	require.NoError(t, f.r.SetStaking(f.env, stakingAddr))
	require.NoError(t, f.ledger.Issue(sfiAsset, owner, big.NewInt(1000)))
	require.NoError(t, f.ledger.Issue(otherAsset, owner, big.NewInt(1000)))
	require.NoError(t, f.ledger.Transfer(f.env, sfiAsset, owner, rewarderAddr, big.NewInt(500), nil))
	return f
}

func TestSetters(t *testing.T) {
	f := newFixture(t)
	userEnv := f.env.WithCaller(user)

	assert.True(t, reverts.Is(f.r.SetRewardAsset(userEnv, sfiAsset), reverts.Unauthorized))
	assert.True(t, reverts.Is(f.r.SetStaking(userEnv, stakingAddr), reverts.Unauthorized))
	assert.True(t, reverts.Is(f.r.SetRewardAsset(f.env, sfi.Address{}), reverts.InvalidArgument))
	assert.True(t, reverts.Is(f.r.SetStaking(f.env, sfi.Address{}), reverts.InvalidArgument))

	asset, err := f.r.RewardAsset()
	assert.NoError(t, err)
	assert.Equal(t, sfiAsset, asset)
	staking, err := f.r.Staking()
	assert.NoError(t, err)
	assert.Equal(t, stakingAddr, staking)

	reserve, err := f.r.Reserve()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(500), reserve)
}

func TestRewardUser(t *testing.T) {
	f := newFixture(t)

	// only the staking contract may request payouts
	err := f.r.RewardUser(f.env.WithCaller(user), user, big.NewInt(10))
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	stakingEnv := f.env.WithCaller(stakingAddr)
	require.NoError(t, f.r.RewardUser(stakingEnv, user, big.NewInt(10)))
	bal, _ := f.ledger.BalanceOf(sfiAsset, user)
	assert.Equal(t, big.NewInt(10), bal)

	events := f.env.Events()
	assert.Equal(t, "UserRewarded", events[len(events)-1].Name)

	// payouts are all or nothing
	err = f.r.RewardUser(stakingEnv, user, big.NewInt(491))
	assert.True(t, reverts.Is(err, reverts.InsufficientFunds))
}

func TestOnPayment(t *testing.T) {
	f := newFixture(t)
	err := f.ledger.Transfer(f.env, otherAsset, owner, rewarderAddr, big.NewInt(1), nil)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument))
}

func TestEmergencyWithdraw(t *testing.T) {
	f := newFixture(t)
	assert.True(t, reverts.Is(
		f.r.EmergencyWithdraw(f.env.WithCaller(user), sfiAsset, user, big.NewInt(1)),
		reverts.Unauthorized))

	require.NoError(t, f.r.EmergencyWithdraw(f.env, sfiAsset, owner, big.NewInt(500)))
	reserve, _ := f.r.Reserve()
	assert.Equal(t, 0, reserve.Sign())
}
