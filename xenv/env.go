// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
)

// BlockContext block context.
type BlockContext struct {
	Number uint64
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          sfi.Bytes32
	Origin      sfi.Address
	ClauseIndex uint32
}

// Event is a log emitted by a contract.
// The first topic is always the event id, keccak256 of the event name.
type Event struct {
	Address sfi.Address   `json:"address"`
	Name    string        `json:"name"`
	Topics  []sfi.Bytes32 `json:"topics"`
	Data    []byte        `json:"data"`
}

// EventID returns the topic identifying events of the given name.
func EventID(name string) sfi.Bytes32 {
	return sfi.Keccak256([]byte(name))
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	caller   sfi.Address
	events   *[]*Event
}

// New create a new env.
func New(
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	caller sfi.Address,
) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		caller:   caller,
		events:   new([]*Event),
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() sfi.Address                     { return env.caller }

// Now returns the number of the block being built.
func (env *Environment) Now() uint64 { return env.blockCtx.Number }

// WithCaller derives the env of a nested call made by the contract at caller.
// State, block and event buffer are shared with the parent.
func (env *Environment) WithCaller(caller sfi.Address) *Environment {
	return &Environment{
		state:    env.state,
		blockCtx: env.blockCtx,
		txCtx:    env.txCtx,
		caller:   caller,
		events:   env.events,
	}
}

// Log appends an event. Args are rlp encoded as a list into the event data.
func (env *Environment) Log(address sfi.Address, name string, topics []sfi.Bytes32, args ...any) {
	if args == nil {
		args = []any{}
	}
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	allTopics := make([]sfi.Bytes32, 0, len(topics)+1)
	allTopics = append(allTopics, EventID(name))
	allTopics = append(allTopics, topics...)

	*env.events = append(*env.events, &Event{
		Address: address,
		Name:    name,
		Topics:  allTopics,
		Data:    data,
	})
}

// Events returns events logged so far.
func (env *Environment) Events() []*Event {
	return append([]*Event(nil), *env.events...)
}

// DropEvents discards logged events.
func (env *Environment) DropEvents() {
	*env.events = (*env.events)[:0]
}
