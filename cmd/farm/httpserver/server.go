// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/metrics"
)

// Server is an http server bound to a listener. Serve blocks until the
// server is shut down.
type Server struct {
	listener net.Listener
	srv      *http.Server
}

// Listen binds addr and prepares a server for handler.
func Listen(addr string, handler http.Handler) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return &Server{
		listener: listener,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		},
	}, nil
}

// ListenMetrics binds addr and prepares a server exposing /metrics.
func ListenMetrics(addr string) (*Server, error) {
	handler := metrics.HTTPHandler()
	if handler == nil {
		return nil, errors.New("metrics are not enabled")
	}
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(handler)

	srv, err := Listen(addr, handlers.CompressHandler(router))
	if err != nil {
		return nil, errors.Wrap(err, "metrics")
	}
	return srv, nil
}

// URL returns the base url of the server.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// Serve accepts connections until Shutdown or Close is called.
func (s *Server) Serve() error {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.srv.Close()
}
