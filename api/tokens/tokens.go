// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/sfi"
)

type Tokens struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Tokens {
	return &Tokens{chain}
}

// Balance is the balance of one holder of an asset.
type Balance struct {
	Asset   sfi.Address           `json:"asset"`
	Address sfi.Address           `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
	Block   uint64                `json:"block"`
}

// Supply is the issued amount of an asset.
type Supply struct {
	Asset       sfi.Address           `json:"asset"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

func (t *Tokens) call(method string, args any) (*math.HexOrDecimal256, error) {
	clause, err := utils.NewClause(builtin.Token.Address, method, args)
	if err != nil {
		return nil, err
	}
	out, err := t.chain.Call(sfi.Address{}, clause)
	if err != nil {
		return nil, err
	}
	if err := utils.OutputError(out); err != nil {
		return nil, err
	}
	return out.Return.(*math.HexOrDecimal256), nil
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.ParseAddress("asset", mux.Vars(req)["asset"])
	if err != nil {
		return err
	}
	holder, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	block := t.chain.PendingBlock().Number
	bal, err := t.call("balanceOf", map[string]sfi.Address{"asset": asset, "holder": holder})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{asset, holder, bal, block})
}

func (t *Tokens) handleGetSupply(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.ParseAddress("asset", mux.Vars(req)["asset"])
	if err != nil {
		return err
	}
	supply, err := t.call("totalSupply", map[string]sfi.Address{"asset": asset})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Supply{asset, supply})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{asset}/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{asset}/supply").
		Methods(http.MethodGet).
		Name("GET /tokens/{asset}/supply").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetSupply))
}
