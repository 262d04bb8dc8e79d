// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/saffron-finance/sfi-farm/api/events"
	"github.com/saffron-finance/sfi-farm/api/farm"
	"github.com/saffron-finance/sfi-farm/api/node"
	"github.com/saffron-finance/sfi-farm/api/subscriptions"
	"github.com/saffron-finance/sfi-farm/api/tokens"
	"github.com/saffron-finance/sfi-farm/api/transactions"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/health"
	"github.com/saffron-finance/sfi-farm/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	BacktraceLimit  uint64
	EnableReqLogger bool
	EnableMetrics   bool
	Health          *health.Health
}

// New return api router and a func closing open subscriptions
func New(chain *chain.Chain, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}
	if opts.BacktraceLimit == 0 {
		opts.BacktraceLimit = 1000
	}

	router := mux.NewRouter()

	farm.New(chain).
		Mount(router, "/farm")
	tokens.New(chain).
		Mount(router, "/tokens")
	transactions.New(chain).
		Mount(router, "/transactions")
	events.New(chain.Events(), opts.EventsLimit).
		Mount(router, "/events")
	node.New(chain, opts.Health).
		Mount(router, "/node")
	subs := subscriptions.New(chain, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions hold hijacked conns, which need closing
}
