// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible asset ledger. Every asset is
// identified by an address and keeps balances and supply under the ledger's storage.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/builtin/solidity"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var (
	logger = log.WithContext("pkg", "token")

	slotBalances = sfi.Blake2b([]byte("balances"))
	slotSupply   = sfi.Blake2b([]byte("supply"))
)

// Receiver is a programmable account notified when it receives an asset.
// Returning an error rejects the payment and aborts the transfer.
type Receiver interface {
	OnPayment(env *xenv.Environment, from sfi.Address, amount *big.Int, data []byte) error
}

// ReceiverResolver returns the receiver deployed at addr, or nil for plain accounts.
type ReceiverResolver func(addr sfi.Address) Receiver

// Ledger the multi asset ledger.
type Ledger struct {
	addr      sfi.Address
	state     *state.State
	balances  *solidity.Mapping[sfi.Bytes32, *big.Int]
	supply    *solidity.Mapping[sfi.Address, *big.Int]
	receivers ReceiverResolver
}

// New creates a ledger bound to the given state.
func New(addr sfi.Address, state *state.State, receivers ReceiverResolver) *Ledger {
	ctx := solidity.NewContext(addr, state)
	return &Ledger{
		addr:      addr,
		state:     state,
		balances:  solidity.NewMapping[sfi.Bytes32, *big.Int](ctx, slotBalances),
		supply:    solidity.NewMapping[sfi.Address, *big.Int](ctx, slotSupply),
		receivers: receivers,
	}
}

func balanceKey(asset, holder sfi.Address) sfi.Bytes32 {
	return sfi.Blake2b(asset.Bytes(), holder.Bytes())
}

// BalanceOf returns the balance of asset held by holder.
func (l *Ledger) BalanceOf(asset, holder sfi.Address) (*big.Int, error) {
	bal, err := l.balances.Get(balanceKey(asset, holder))
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// TotalSupply returns the issued amount of asset.
func (l *Ledger) TotalSupply(asset sfi.Address) (*big.Int, error) {
	supply, err := l.supply.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "supply")
	}
	if supply == nil {
		return new(big.Int), nil
	}
	return supply, nil
}

func (l *Ledger) setBalance(asset, holder sfi.Address, amount *big.Int) error {
	key := balanceKey(asset, holder)
	if amount.Sign() == 0 {
		l.balances.Delete(key)
		return nil
	}
	return l.balances.Set(key, amount)
}

// Issue mints amount of asset to holder. It is only used when building genesis.
func (l *Ledger) Issue(asset, to sfi.Address, amount *big.Int) error {
	if asset.IsZero() || to.IsZero() {
		return reverts.New(reverts.InvalidArgument, "invalid address")
	}
	if amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidArgument, "amount must be greater than zero")
	}
	bal, err := l.BalanceOf(asset, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(asset, to, new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	supply, err := l.TotalSupply(asset)
	if err != nil {
		return err
	}
	if err := l.supply.Set(asset, new(big.Int).Add(supply, amount)); err != nil {
		return err
	}
	logger.Debug("asset issued", "asset", asset, "to", to, "amount", amount)
	return nil
}

// Transfer moves amount of asset from the caller to another account.
// If the recipient is a programmable account, it is notified with the caller set to the asset
// and may reject the payment.
func (l *Ledger) Transfer(env *xenv.Environment, asset, from, to sfi.Address, amount *big.Int, data []byte) error {
	if from.IsZero() {
		return reverts.New(reverts.InvalidArgument, "invalid from address")
	}
	if to.IsZero() {
		return reverts.New(reverts.InvalidArgument, "invalid to address")
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidArgument, "amount must be greater than zero")
	}
	if env.Caller() != from {
		return reverts.New(reverts.Unauthorized, "not authorized")
	}

	fromBal, err := l.BalanceOf(asset, from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.New(reverts.InsufficientFunds, "insufficient balance")
	}
	if err := l.setBalance(asset, from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := l.BalanceOf(asset, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(asset, to, new(big.Int).Add(toBal, amount)); err != nil {
		return err
	}
	env.Log(l.addr, "Transfer", []sfi.Bytes32{
		sfi.BytesToBytes32(from.Bytes()),
		sfi.BytesToBytes32(to.Bytes()),
	}, asset, amount)

	if l.receivers == nil {
		return nil
	}
	if receiver := l.receivers(to); receiver != nil {
		return receiver.OnPayment(env.WithCaller(asset), from, amount, data)
	}
	return nil
}
