// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// Clause is one contract method invocation.
type Clause struct {
	To     sfi.Address     `json:"to"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Output is the result of executing a clause.
type Output struct {
	Events       []*xenv.Event
	Return       any
	Reverted     bool
	RevertKind   reverts.Kind
	RevertReason string
}

// Runtime executes clauses against a state in the context of one block.
type Runtime struct {
	state    *state.State
	blockCtx *xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, blockCtx xenv.BlockContext) *Runtime {
	return &Runtime{
		state:    state,
		blockCtx: &blockCtx,
	}
}

func (rt *Runtime) State() *state.State              { return rt.state }
func (rt *Runtime) BlockContext() *xenv.BlockContext { return rt.blockCtx }

func (rt *Runtime) run(clause *Clause, txCtx *xenv.TransactionContext, readonly bool) (*Output, *xenv.Environment, error) {
	method, found := builtin.FindNativeMethod(clause.To, clause.Method)
	if !found {
		return &Output{
			Reverted:     true,
			RevertKind:   reverts.NotFound,
			RevertReason: "method not found",
		}, nil, nil
	}
	if readonly && !method.Const {
		return &Output{
			Reverted:     true,
			RevertKind:   reverts.Unauthorized,
			RevertReason: "write protection",
		}, nil, nil
	}

	env := xenv.New(rt.state, rt.blockCtx, txCtx, txCtx.Origin)
	ret, err := method.Run(env, clause.Args)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return &Output{
				Reverted:     true,
				RevertKind:   reverts.KindOf(err),
				RevertReason: err.Error(),
			}, env, nil
		}
		return nil, env, errors.WithMessagef(err, "execute %v.%s", clause.To, clause.Method)
	}
	return &Output{
		Events: env.Events(),
		Return: ret,
	}, env, nil
}

// Execute runs a clause. All state changes and events of a reverted or failed
// clause are discarded. An error is returned only for infrastructure failures.
func (rt *Runtime) Execute(clause *Clause, txCtx *xenv.TransactionContext) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()
	out, env, err := rt.run(clause, txCtx, false)
	if err != nil || out.Reverted {
		rt.state.RevertTo(checkpoint)
		if env != nil {
			env.DropEvents()
		}
	}
	if err != nil {
		logger.Warn("clause failed", "to", clause.To, "method", clause.Method, "err", err)
		return nil, err
	}
	if out.Reverted {
		out.Events = nil
		logger.Debug("clause reverted", "to", clause.To, "method", clause.Method, "reason", out.RevertReason)
	}
	return out, nil
}

// Call runs a const clause and discards everything it changed.
func (rt *Runtime) Call(clause *Clause, caller sfi.Address) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)

	out, _, err := rt.run(clause, &xenv.TransactionContext{Origin: caller}, true)
	return out, err
}
