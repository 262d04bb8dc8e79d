// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

const maxTopics = 4

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB NOT NULL,
	txOrigin BLOB NOT NULL,
	clauseIndex INTEGER NOT NULL,
	address BLOB NOT NULL,
	name TEXT NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	data BLOB,
	PRIMARY KEY (blockNumber, eventIndex)
);
CREATE INDEX IF NOT EXISTS event_address_name ON event(address, name);`

// Event is a contract event as stored in the db.
type Event struct {
	BlockNumber uint64
	Index       uint32
	BlockTime   uint64
	TxID        sfi.Bytes32
	TxOrigin    sfi.Address
	ClauseIndex uint32
	Address     sfi.Address
	Name        string
	Topics      [maxTopics]*sfi.Bytes32
	Data        []byte
}

// NewEvent converts an emitted event into its db form. Topics beyond the fourth are dropped.
func NewEvent(blockCtx *xenv.BlockContext, index uint32, txCtx *xenv.TransactionContext, event *xenv.Event) *Event {
	ev := &Event{
		BlockNumber: blockCtx.Number,
		Index:       index,
		BlockTime:   blockCtx.Time,
		TxID:        txCtx.ID,
		TxOrigin:    txCtx.Origin,
		ClauseIndex: txCtx.ClauseIndex,
		Address:     event.Address,
		Name:        event.Name,
		Data:        event.Data,
	}
	for i := 0; i < len(event.Topics) && i < maxTopics; i++ {
		topic := event.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}
