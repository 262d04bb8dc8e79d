// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) filter(filter *Filter) ([]*FilteredEvent, error) {
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return nil, utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil && filter.Range.To < filter.Range.From {
		return nil, utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	for i, criteria := range filter.CriteriaSet {
		if criteria == nil {
			return nil, utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		// one more than the limit to detect overflow
		filter.Options = &eventdb.Options{Limit: e.limit + 1}
	}

	events, err := e.db.Filter(convertFilter(filter))
	if err != nil {
		return nil, err
	}
	if len(events) > int(e.limit) {
		return nil, utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = convertEvent(ev)
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	fes, err := e.filter(&filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, fes)
}

// handleQuery serves the query string form: address, name, from, to, order, offset, limit.
func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	var (
		filter Filter
		query  = req.URL.Query()
	)
	if s := query.Get("address"); s != "" {
		addr, err := utils.ParseAddress("address", s)
		if err != nil {
			return err
		}
		filter.Address = &addr
	}
	filter.Name = query.Get("name")
	if query.Has("from") || query.Has("to") {
		filter.Range = &eventdb.Range{Unit: eventdb.Block, To: math.MaxInt64}
		if s := query.Get("from"); s != "" {
			from, err := utils.ParseUint64("from", s)
			if err != nil {
				return err
			}
			filter.Range.From = from
		}
		if s := query.Get("to"); s != "" {
			to, err := utils.ParseUint64("to", s)
			if err != nil {
				return err
			}
			filter.Range.To = to
		}
	}
	switch order := eventdb.OrderType(strings.ToLower(query.Get("order"))); order {
	case "", eventdb.ASC, eventdb.DESC:
		filter.Order = order
	default:
		return utils.BadRequest(fmt.Errorf("order: unsupported value %q", order))
	}
	if query.Has("offset") || query.Has("limit") {
		filter.Options = &eventdb.Options{Limit: e.limit}
		if s := query.Get("offset"); s != "" {
			offset, err := utils.ParseUint64("offset", s)
			if err != nil {
				return err
			}
			filter.Options.Offset = offset
		}
		if s := query.Get("limit"); s != "" {
			limit, err := utils.ParseUint64("limit", s)
			if err != nil {
				return err
			}
			filter.Options.Limit = limit
		}
	}

	fes, err := e.filter(&filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
}
