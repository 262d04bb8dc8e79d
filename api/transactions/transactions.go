// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/sfi"
)

type Transactions struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Transactions {
	return &Transactions{chain}
}

// handleSendTransaction executes the clause in the pending block. A reverted
// clause is reported in the receipt with status 200.
func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var tx Transaction
	if err := utils.ParseJSON(req.Body, &tx); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if tx.Origin.IsZero() {
		return utils.BadRequest(errors.New("origin: required"))
	}
	if tx.Method == "" {
		return utils.BadRequest(errors.New("method: required"))
	}

	res, err := t.chain.Execute(tx.Origin, tx.clause())
	if err != nil {
		return err
	}
	receipt := convertReceipt(res.Receipt)
	receipt.Events = convertEvents(res.Output.Events)
	receipt.Return = res.Output.Return
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := sfi.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.chain.GetReceipt(id)
	if err != nil {
		if t.chain.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetReceipt))
}
