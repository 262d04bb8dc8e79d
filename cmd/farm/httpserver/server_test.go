// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/co"
	"github.com/saffron-finance/sfi-farm/metrics"
)

func TestServeAndShutdown(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	}))
	require.NoError(t, err)

	var goes co.Goes
	var serveErr error
	goes.Go(func() { serveErr = srv.Serve() })

	res, err := http.Get(srv.URL() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	require.NoError(t, srv.Shutdown(context.Background()))
	goes.Wait()
	assert.NoError(t, serveErr)
}

func TestListenMetrics(t *testing.T) {
	metrics.InitializePrometheusMetrics()

	srv, err := ListenMetrics("127.0.0.1:0")
	require.NoError(t, err)

	var goes co.Goes
	goes.Go(func() { srv.Serve() })
	defer func() {
		srv.Close()
		goes.Wait()
	}()

	res, err := http.Get(srv.URL() + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestListenInvalidAddr(t *testing.T) {
	_, err := Listen("not-an-addr", http.NotFoundHandler())
	assert.Error(t, err)
}
