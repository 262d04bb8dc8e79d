// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/xenv"
)

var (
	contract = sfi.BytesToAddress([]byte("addr"))
	origin   = sfi.BytesToAddress([]byte("txOrigin"))
	user     = sfi.BytesToBytes32([]byte("user"))
)

func newEvents(n int) []*eventdb.Event {
	var events []*eventdb.Event
	for i := 0; i < n; i++ {
		name := "TokensDeposited"
		if i%2 == 1 {
			name = "TokensWithdrawn"
		}
		ev := &xenv.Event{
			Address: contract,
			Name:    name,
			Topics:  []sfi.Bytes32{xenv.EventID(name), user},
			Data:    []byte{byte(i)},
		}
		events = append(events, eventdb.NewEvent(
			&xenv.BlockContext{Number: uint64(i), Time: 1000 + uint64(i)*10},
			0,
			&xenv.TransactionContext{ID: sfi.BytesToBytes32([]byte("txID")), Origin: origin},
			ev,
		))
	}
	return events
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Insert(newEvents(100)))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)
	assert.Equal(t, "TokensDeposited", all[0].Name)
	assert.Equal(t, origin, all[0].TxOrigin)
	assert.Equal(t, xenv.EventID("TokensDeposited"), *all[0].Topics[0])
	assert.Nil(t, all[0].Topics[2])

	t0 := xenv.EventID("TokensWithdrawn")
	t1 := user
	addr := contract
	limit := 5
	evs, err := db.Filter(&eventdb.Filter{
		Range: &eventdb.Range{
			Unit: eventdb.Block,
			From: 0,
			To:   10,
		},
		Options: &eventdb.Options{
			Offset: 0,
			Limit:  uint64(limit),
		},
		Order:    eventdb.DESC,
		Address:  &addr,
		TopicSet: [][4]*sfi.Bytes32{{&t0, &t1, nil, nil}},
	})
	require.NoError(t, err)
	require.Len(t, evs, limit)
	assert.Equal(t, uint64(9), evs[0].BlockNumber)
	for _, ev := range evs {
		assert.Equal(t, "TokensWithdrawn", ev.Name)
	}
}

func TestFilterByNameAndTime(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Insert(newEvents(10)))

	evs, err := db.Filter(&eventdb.Filter{
		Name:  "TokensDeposited",
		Range: &eventdb.Range{Unit: eventdb.Time, From: 1020, To: 1060},
	})
	require.NoError(t, err)
	var blocks []uint64
	for _, ev := range evs {
		blocks = append(blocks, ev.BlockNumber)
	}
	assert.Equal(t, []uint64{2, 4, 6}, blocks)
}

func TestPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(newEvents(3)))
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	evs, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, evs, 3)
}
