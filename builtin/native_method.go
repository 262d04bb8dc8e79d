// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"sort"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

type addressAndMethod struct {
	sfi.Address
	name string
}

var nativeMethods = make(map[addressAndMethod]*NativeMethod)

// NativeMethod is a contract method callable by a clause.
type NativeMethod struct {
	Name  string
	Const bool
	run   func(env *xenv.Environment, args json.RawMessage) (any, error)
}

// Run decodes args and invokes the method.
func (m *NativeMethod) Run(env *xenv.Environment, args json.RawMessage) (any, error) {
	return m.run(env, args)
}

// FindNativeMethod returns the method of the contract at addr.
func FindNativeMethod(addr sfi.Address, name string) (*NativeMethod, bool) {
	m, ok := nativeMethods[addressAndMethod{addr, name}]
	return m, ok
}

// NativeMethods lists method names of the contract at addr.
func NativeMethods(addr sfi.Address) []string {
	var names []string
	for k := range nativeMethods {
		if k.Address == addr {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

type define struct {
	name    string
	isConst bool
	run     func(env *xenv.Environment, args json.RawMessage) (any, error)
}

func register(addr sfi.Address, defines []define) {
	for _, def := range defines {
		key := addressAndMethod{addr, def.name}
		if _, dup := nativeMethods[key]; dup {
			panic("duplicated native method " + def.name)
		}
		nativeMethods[key] = &NativeMethod{
			Name:  def.name,
			Const: def.isConst,
			run:   def.run,
		}
	}
}

// parseArgs unpacks json args into v.
func parseArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return reverts.Newf(reverts.InvalidArgument, "decode args: %v", err)
	}
	return nil
}
