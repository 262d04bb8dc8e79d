// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a contract revert.
type Kind uint8

const (
	InvalidArgument Kind = iota + 1
	Unauthorized
	NotFound
	AlreadyExists
	InsufficientFunds
	Expired
)

var kindNames = map[Kind]string{
	InvalidArgument:   "invalid argument",
	Unauthorized:      "unauthorized",
	NotFound:          "not found",
	AlreadyExists:     "already exists",
	InsufficientFunds: "insufficient funds",
	Expired:           "expired",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrRevert is returned by a contract method to abort the enclosing clause.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// KindOf returns the kind of a revert error, 0 for other errors.
func KindOf(err error) Kind {
	var re *ErrRevert
	if errors.As(err, &re) && re != nil {
		return re.kind
	}
	return 0
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *ErrRevert
	if errors.As(e, &re) {
		return re != nil
	}
	return false
}
