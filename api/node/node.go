// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/health"
	"github.com/saffron-finance/sfi-farm/sfi"
)

// maxWait bounds how long a best block request may block for the next block.
const maxWait = 30 * time.Second

type Node struct {
	chain  *chain.Chain
	health *health.Health
}

// New returns the node api. The health route is mounted only when h is set.
func New(chain *chain.Chain, h *health.Health) *Node {
	return &Node{chain, h}
}

// Block is the json view of a sealed block.
type Block struct {
	Number uint64        `json:"number"`
	Time   uint64        `json:"time"`
	Txs    []sfi.Bytes32 `json:"txs"`
}

// Info describes the node.
type Info struct {
	Genesis       string `json:"genesis"`
	BestBlock     uint64 `json:"bestBlock"`
	PendingBlock  uint64 `json:"pendingBlock"`
	SQLiteVersion string `json:"sqliteVersion"`
}

func convertBlock(b *chain.BlockSummary) *Block {
	txs := b.Txs
	if txs == nil {
		txs = []sfi.Bytes32{}
	}
	return &Block{b.Number, b.Time, txs}
}

// handleGetBest returns the best block. With wait=true it first waits for the
// next block to be sealed.
func (n *Node) handleGetBest(w http.ResponseWriter, req *http.Request) error {
	if req.URL.Query().Get("wait") == "true" {
		select {
		case <-n.chain.NewTicker():
		case <-time.After(maxWait):
		case <-req.Context().Done():
			return nil
		}
	}
	return utils.WriteJSON(w, convertBlock(n.chain.BestBlock()))
}

func (n *Node) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	num, err := utils.ParseUint64("number", mux.Vars(req)["number"])
	if err != nil {
		return err
	}
	b, err := n.chain.GetBlock(num)
	if err != nil {
		if n.chain.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, convertBlock(b))
}

func (n *Node) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Info{
		Genesis:       n.chain.GenesisName(),
		BestBlock:     n.chain.BestBlock().Number,
		PendingBlock:  n.chain.PendingBlock().Number,
		SQLiteVersion: n.chain.Events().SQLiteVersion(),
	})
}

func (n *Node) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status := n.health.Status()
	if !status.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/best").
		Methods(http.MethodGet).
		Name("GET /node/best").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetBest))
	sub.Path("/blocks/{number:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /node/blocks/{number}").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetBlock))
	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetInfo))

	if n.health != nil {
		sub.Path("/health").
			Methods(http.MethodGet).
			Name("GET /node/health").
			HandlerFunc(utils.WrapHandlerFunc(n.handleGetHealth))
	}
}
