// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/log"
)

var logger = log.WithContext("pkg", "admin")

// HTTPHandler serves /admin/loglevel, which reads and changes the verbosity
// of the running node.
func HTTPHandler(logLevel *slog.LevelVar) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(getLogLevelHandler(logLevel)))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(postLogLevelHandler(logLevel)))

	return handlers.CompressHandler(router)
}
