// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

// Transaction is a clause submitted on behalf of origin.
type Transaction struct {
	Origin sfi.Address     `json:"origin"`
	To     sfi.Address     `json:"to"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

func (t *Transaction) clause() *runtime.Clause {
	return &runtime.Clause{To: t.To, Method: t.Method, Args: t.Args}
}

// Event is an event in a receipt.
type Event struct {
	Address sfi.Address   `json:"address"`
	Name    string        `json:"name"`
	Topics  []sfi.Bytes32 `json:"topics"`
	Data    hexutil.Bytes `json:"data"`
}

// Receipt reports the outcome of a clause.
type Receipt struct {
	TxID         sfi.Bytes32 `json:"txID"`
	BlockNumber  uint64      `json:"blockNumber"`
	Origin       sfi.Address `json:"origin"`
	To           sfi.Address `json:"to"`
	Method       string      `json:"method"`
	Reverted     bool        `json:"reverted"`
	RevertKind   string      `json:"revertKind,omitempty"`
	RevertReason string      `json:"revertReason,omitempty"`
	EventCount   uint32      `json:"eventCount"`
	Events       []*Event    `json:"events,omitempty"`
	Return       any         `json:"return,omitempty"`
}

func convertReceipt(r *chain.Receipt) *Receipt {
	receipt := &Receipt{
		TxID:         r.TxID,
		BlockNumber:  r.BlockNumber,
		Origin:       r.Origin,
		To:           r.To,
		Method:       r.Method,
		Reverted:     r.Reverted,
		RevertReason: r.RevertReason,
		EventCount:   r.EventCount,
	}
	if r.Reverted {
		receipt.RevertKind = r.RevertKind.String()
	}
	return receipt
}

func convertEvents(events []*xenv.Event) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		out = append(out, &Event{
			Address: e.Address,
			Name:    e.Name,
			Topics:  e.Topics,
			Data:    e.Data,
		})
	}
	return out
}
