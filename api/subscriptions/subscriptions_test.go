// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/genesis"
	"github.com/saffron-finance/sfi-farm/lvldb"
	"github.com/saffron-finance/sfi-farm/runtime"
)

func newTestChain(t *testing.T) *chain.Chain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	c, err := chain.New(db, events, genesis.NewDevnet())
	require.NoError(t, err)
	return c
}

func initSubscriptionsServer(t *testing.T, c *chain.Chain, backtraceLimit uint64) *httptest.Server {
	router := mux.NewRouter()
	subs := New(c, []string{"*"}, backtraceLimit)
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
	})
	return ts
}

func deposit(t *testing.T, c *chain.Chain, amount int64) {
	args, err := json.Marshal(map[string]any{
		"asset":  genesis.DevStakeAssetA,
		"to":     builtin.Farm.Address,
		"amount": (*math.HexOrDecimal256)(big.NewInt(amount)),
	})
	require.NoError(t, err)
	res, err := c.Execute(genesis.DevAccounts()[1].Address, &runtime.Clause{
		To:     builtin.Token.Address,
		Method: "transfer",
		Args:   args,
	})
	require.NoError(t, err)
	require.False(t, res.Output.Reverted)
}

func dial(t *testing.T, ts *httptest.Server, subject, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/" + subject, RawQuery: query}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Check the protocol upgrade to websocket
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "Upgrade", resp.Header.Get("Connection"))
	assert.Equal(t, "websocket", resp.Header.Get("Upgrade"))
	return conn
}

func TestSubscriptions(t *testing.T) {
	c := newTestChain(t)
	deposit(t, c, 1000)
	for i := 0; i < 2; i++ {
		_, err := c.Seal(uint64(i + 1))
		require.NoError(t, err)
	}
	ts := initSubscriptionsServer(t, c, 5)

	for name, tt := range map[string]func(*testing.T){
		"testHandleSubjectWithBlock":            func(t *testing.T) { testHandleSubjectWithBlock(t, ts) },
		"testHandleSubjectWithEvent":            func(t *testing.T) { testHandleSubjectWithEvent(t, ts) },
		"testHandleSubjectWithNonValidArgument": func(t *testing.T) { testHandleSubjectWithNonValidArgument(t, ts) },
	} {
		t.Run(name, tt)
	}
}

func testHandleSubjectWithBlock(t *testing.T, ts *httptest.Server) {
	conn := dial(t, ts, "block", "pos=0")

	for _, want := range []uint64{1, 2} {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var blockMsg *BlockMessage
		require.NoError(t, json.Unmarshal(msg, &blockMsg))
		assert.Equal(t, want, blockMsg.Number)
		if want == 1 {
			assert.Len(t, blockMsg.Transactions, 1)
		} else {
			assert.Empty(t, blockMsg.Transactions)
		}
	}
}

func testHandleSubjectWithEvent(t *testing.T, ts *httptest.Server) {
	query := fmt.Sprintf("pos=0&address=%s&name=TokensDeposited", builtin.Farm.Address)
	conn := dial(t, ts, "event", query)

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var eventMsg *EventMessage
	require.NoError(t, json.Unmarshal(msg, &eventMsg))
	assert.Equal(t, "TokensDeposited", eventMsg.Name)
	assert.Equal(t, builtin.Farm.Address, eventMsg.Address)
	assert.Equal(t, uint64(1), eventMsg.Meta.BlockNumber)
	assert.Equal(t, genesis.DevAccounts()[1].Address, eventMsg.Meta.TxOrigin)
}

func testHandleSubjectWithNonValidArgument(t *testing.T, ts *httptest.Server) {
	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/subscriptions/block?pos=abc", http.StatusBadRequest},
		{"/subscriptions/block?pos=100", http.StatusBadRequest},
		{"/subscriptions/event?address=0xzz", http.StatusBadRequest},
		{"/subscriptions/event?t0=0x01", http.StatusBadRequest},
		{"/subscriptions/beat", http.StatusNotFound},
	} {
		u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: strings.Split(tc.path, "?")[0]}
		if i := strings.Index(tc.path, "?"); i >= 0 {
			u.RawQuery = tc.path[i+1:]
		}
		conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
		assert.Error(t, err, tc.path)
		assert.Nil(t, conn)
		require.NotNil(t, resp, tc.path)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, body)
		resp.Body.Close()
	}
}

func TestSubscriptionFollowsNewBlocks(t *testing.T) {
	c := newTestChain(t)
	ts := initSubscriptionsServer(t, c, 5)

	blocks := dial(t, ts, "block", "")
	events := dial(t, ts, "event", "name=TokensDeposited")

	deposit(t, c, 500)
	_, err := c.Seal(1)
	require.NoError(t, err)

	_, msg, err := blocks.ReadMessage()
	require.NoError(t, err)
	var blockMsg BlockMessage
	require.NoError(t, json.Unmarshal(msg, &blockMsg))
	assert.Equal(t, uint64(1), blockMsg.Number)

	_, msg, err = events.ReadMessage()
	require.NoError(t, err)
	var eventMsg EventMessage
	require.NoError(t, json.Unmarshal(msg, &eventMsg))
	assert.Equal(t, "TokensDeposited", eventMsg.Name)
	assert.Equal(t, uint64(1), eventMsg.Meta.BlockNumber)
}

func TestSubscriptionsBacktrace(t *testing.T) {
	c := newTestChain(t)
	for i := 0; i < 10; i++ {
		_, err := c.Seal(uint64(i + 1))
		require.NoError(t, err)
	}
	ts := initSubscriptionsServer(t, c, 5)

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/block", RawQuery: "pos=2"}
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	conn := dial(t, ts, "block", "pos=5")
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var blockMsg BlockMessage
	require.NoError(t, json.Unmarshal(msg, &blockMsg))
	assert.Equal(t, uint64(6), blockMsg.Number)
}

func TestMessageCache(t *testing.T) {
	cache := newMessageCache(2)
	calls := 0
	create := func() ([]byte, error) {
		calls++
		return []byte(fmt.Sprint(calls)), nil
	}

	msg, added, err := cache.GetOrAdd(1, create)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []byte("1"), msg)

	msg, added, err = cache.GetOrAdd(1, create)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []byte("1"), msg)
	assert.Equal(t, 1, calls)

	_, _, err = cache.GetOrAdd(2, func() ([]byte, error) { return nil, assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, cache.cache.Len())
}
