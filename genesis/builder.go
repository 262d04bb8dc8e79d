// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *runtime.Clause
	caller sfi.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(clause *runtime.Clause, caller sfi.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// Build applies state processes and calls at block 0 and commits the result.
func (b *Builder) Build(st *state.State) (events []*xenv.Event, err error) {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, xenv.BlockContext{
		Number: 0,
		Time:   b.timestamp,
	})

	for i, call := range b.calls {
		out, err := rt.Execute(call.clause, &xenv.TransactionContext{
			Origin:      call.caller,
			ClauseIndex: uint32(i),
		})
		if err != nil {
			return nil, errors.Wrap(err, "runtime")
		}
		if out.Reverted {
			return nil, errors.Errorf("call %s reverted: %s", call.clause.Method, out.RevertReason)
		}
		events = append(events, out.Events...)
	}

	if err := st.Stage().Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return events, nil
}
