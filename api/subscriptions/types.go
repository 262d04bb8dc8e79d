// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/sfi"
)

// BlockMessage block piped by websocket
type BlockMessage struct {
	Number       uint64        `json:"number"`
	Timestamp    uint64        `json:"timestamp"`
	Transactions []sfi.Bytes32 `json:"transactions"`
}

func convertBlock(b *chain.BlockSummary) *BlockMessage {
	txs := b.Txs
	if txs == nil {
		txs = []sfi.Bytes32{}
	}
	return &BlockMessage{
		Number:       b.Number,
		Timestamp:    b.Time,
		Transactions: txs,
	}
}

// LogMeta is the place an event was emitted.
type LogMeta struct {
	BlockNumber    uint64      `json:"blockNumber"`
	BlockTimestamp uint64      `json:"blockTimestamp"`
	TxID           sfi.Bytes32 `json:"txID"`
	TxOrigin       sfi.Address `json:"txOrigin"`
	ClauseIndex    uint32      `json:"clauseIndex"`
}

// EventMessage event piped by websocket
type EventMessage struct {
	Address sfi.Address    `json:"address"`
	Name    string         `json:"name"`
	Topics  []*sfi.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
	Meta    LogMeta        `json:"meta"`
}

func convertEvent(e *eventdb.Event) *EventMessage {
	msg := &EventMessage{
		Address: e.Address,
		Name:    e.Name,
		Topics:  []*sfi.Bytes32{},
		Data:    e.Data,
		Meta: LogMeta{
			BlockNumber:    e.BlockNumber,
			BlockTimestamp: e.BlockTime,
			TxID:           e.TxID,
			TxOrigin:       e.TxOrigin,
			ClauseIndex:    e.ClauseIndex,
		},
	}
	for _, topic := range e.Topics {
		if topic != nil {
			msg.Topics = append(msg.Topics, topic)
		}
	}
	return msg
}

// EventFilter narrows an event subscription. Empty fields match any.
type EventFilter struct {
	Address *sfi.Address
	Name    string
	Topic0  *sfi.Bytes32
	Topic1  *sfi.Bytes32
	Topic2  *sfi.Bytes32
	Topic3  *sfi.Bytes32
}

func (ef *EventFilter) topicSet() [][4]*sfi.Bytes32 {
	if ef.Topic0 == nil && ef.Topic1 == nil && ef.Topic2 == nil && ef.Topic3 == nil {
		return nil
	}
	return [][4]*sfi.Bytes32{{ef.Topic0, ef.Topic1, ef.Topic2, ef.Topic3}}
}
