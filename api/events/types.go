// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/sfi"
)

// Criteria matches topics by position; nil matches any.
type Criteria struct {
	Topic0 *sfi.Bytes32 `json:"topic0"`
	Topic1 *sfi.Bytes32 `json:"topic1"`
	Topic2 *sfi.Bytes32 `json:"topic2"`
	Topic3 *sfi.Bytes32 `json:"topic3"`
}

// Filter is the request body of an event query.
type Filter struct {
	Address     *sfi.Address      `json:"address"`
	Name        string            `json:"name"`
	CriteriaSet []*Criteria       `json:"criteriaSet"`
	Range       *eventdb.Range    `json:"range"`
	Options     *eventdb.Options  `json:"options"`
	Order       eventdb.OrderType `json:"order"`
}

// FilteredEvent is an event with the place it was emitted.
type FilteredEvent struct {
	Address     sfi.Address    `json:"address"`
	Name        string         `json:"name"`
	Topics      []*sfi.Bytes32 `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber uint64         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTime"`
	TxID        sfi.Bytes32    `json:"txID"`
	TxOrigin    sfi.Address    `json:"txOrigin"`
	ClauseIndex uint32         `json:"clauseIndex"`
}

func convertFilter(f *Filter) *eventdb.Filter {
	filter := &eventdb.Filter{
		Address: f.Address,
		Name:    f.Name,
		Range:   f.Range,
		Options: f.Options,
		Order:   f.Order,
	}
	for _, c := range f.CriteriaSet {
		filter.TopicSet = append(filter.TopicSet, [4]*sfi.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3})
	}
	return filter
}

func convertEvent(e *eventdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address:     e.Address,
		Name:        e.Name,
		Data:        e.Data,
		BlockNumber: e.BlockNumber,
		BlockTime:   e.BlockTime,
		TxID:        e.TxID,
		TxOrigin:    e.TxOrigin,
		ClauseIndex: e.ClauseIndex,
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	return fe
}
