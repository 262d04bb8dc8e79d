// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/eventdb"
)

type eventReader struct {
	chain  *chain.Chain
	filter *EventFilter
	pos    uint64
}

func newEventReader(chain *chain.Chain, position uint64, filter *EventFilter) *eventReader {
	return &eventReader{
		chain:  chain,
		filter: filter,
		pos:    position,
	}
}

// Read returns the matching events of the blocks sealed after the position.
// The bool result reports whether any block was consumed.
func (er *eventReader) Read() ([][]byte, bool, error) {
	best := er.chain.BestBlock().Number
	if best <= er.pos {
		return nil, false, nil
	}
	events, err := er.chain.Events().Filter(&eventdb.Filter{
		Address:  er.filter.Address,
		Name:     er.filter.Name,
		TopicSet: er.filter.topicSet(),
		Range: &eventdb.Range{
			Unit: eventdb.Block,
			From: er.pos + 1,
			To:   best,
		},
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([][]byte, 0, len(events))
	for _, ev := range events {
		msg, err := json.Marshal(convertEvent(ev))
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
	}
	er.pos = best
	return msgs, true, nil
}
