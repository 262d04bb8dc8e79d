// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"database/sql"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/sfi"
)

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter filter
type Filter struct {
	Address  *sfi.Address              `json:"address"` // always a contract address
	Name     string                    `json:"name"`
	TopicSet [][maxTopics]*sfi.Bytes32 `json:"topicSet"`
	Order    OrderType                 `json:"order"` // default asc
	Range    *Range                    `json:"range"`
	Options  *Options                  `json:"options"`
}

// EventDB manages all events
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New open a event db
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// in-memory dbs are per connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert insert events into db in one transaction.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, event := range events {
		if _, err = tx.Exec("INSERT OR REPLACE INTO event(blockNumber, eventIndex, blockTime, txID, txOrigin, clauseIndex, address, name, topic0, topic1, topic2, topic3, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
			event.BlockNumber,
			event.Index,
			event.BlockTime,
			event.TxID.Bytes(),
			event.TxOrigin.Bytes(),
			event.ClauseIndex,
			event.Address.Bytes(),
			event.Name,
			topicValue(event.Topics[0]),
			topicValue(event.Topics[1]),
			topicValue(event.Topics[2]),
			topicValue(event.Topics[3]),
			event.Data); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter return events with options
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	const cols = "SELECT blockNumber, eventIndex, blockTime, txID, txOrigin, clauseIndex, address, name, topic0, topic1, topic2, topic3, data FROM event"
	if filter == nil {
		return db.query(cols + " ORDER BY blockNumber, eventIndex ASC")
	}
	var (
		args []any
		stmt strings.Builder
	)
	stmt.WriteString(cols + " WHERE 1")

	condition := "blockNumber"
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			condition = "blockTime"
		}
		args = append(args, filter.Range.From)
		stmt.WriteString(" AND " + condition + " >= ?")
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt.WriteString(" AND " + condition + " <= ?")
		}
	}
	if filter.Address != nil {
		args = append(args, filter.Address.Bytes())
		stmt.WriteString(" AND address = ?")
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt.WriteString(" AND name = ?")
	}
	if len(filter.TopicSet) > 0 {
		var sets []string
		for _, topics := range filter.TopicSet {
			cond := "1"
			for j, topic := range topics {
				if topic != nil {
					args = append(args, topic.Bytes())
					cond += fmt.Sprintf(" AND topic%d = ?", j)
				}
			}
			sets = append(sets, "("+cond+")")
		}
		stmt.WriteString(" AND (" + strings.Join(sets, " OR ") + ")")
	}

	if filter.Order == DESC {
		stmt.WriteString(" ORDER BY blockNumber DESC, eventIndex DESC")
	} else {
		stmt.WriteString(" ORDER BY blockNumber ASC, eventIndex ASC")
	}

	if filter.Options != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt.String(), args...)
}

// query query events
func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			blockNumber uint64
			index       uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			clauseIndex uint32
			address     []byte
			name        string
			topics      [maxTopics][]byte
			data        []byte
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&blockTime,
			&txID,
			&txOrigin,
			&clauseIndex,
			&address,
			&name,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: blockNumber,
			Index:       index,
			BlockTime:   blockTime,
			TxID:        sfi.BytesToBytes32(txID),
			TxOrigin:    sfi.BytesToAddress(txOrigin),
			ClauseIndex: clauseIndex,
			Address:     sfi.BytesToAddress(address),
			Name:        name,
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := sfi.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path return db's file path
func (db *EventDB) Path() string {
	return db.path
}

// SQLiteVersion returns the version of the linked sqlite library.
func (db *EventDB) SQLiteVersion() string {
	return db.sqliteVersion
}

// Close close sqlite
func (db *EventDB) Close() error {
	return db.db.Close()
}

func topicValue(topic *sfi.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}
