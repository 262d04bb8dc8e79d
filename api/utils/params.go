// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
)

// ParseUint64 parses a decimal path or query value.
func ParseUint64(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParseAddress parses a hex address path or query value.
func ParseAddress(name, s string) (sfi.Address, error) {
	addr, err := sfi.ParseAddress(s)
	if err != nil {
		return sfi.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// NewClause builds a clause with json encoded args.
func NewClause(to sfi.Address, method string, args any) (*runtime.Clause, error) {
	clause := &runtime.Clause{To: to, Method: method}
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		clause.Args = data
	}
	return clause, nil
}
