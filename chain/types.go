// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
)

// BlockSummary presents a sealed block.
type BlockSummary struct {
	Number uint64
	Time   uint64
	Txs    []sfi.Bytes32
}

// Receipt is the outcome of one executed clause.
type Receipt struct {
	TxID         sfi.Bytes32
	BlockNumber  uint64
	Origin       sfi.Address
	To           sfi.Address
	Method       string
	Reverted     bool
	RevertKind   reverts.Kind
	RevertReason string
	EventCount   uint32
}

// Result is what Execute reports back to the submitter.
type Result struct {
	Receipt *Receipt
	Output  *runtime.Output
}
