// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
)

type Farm struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Farm {
	return &Farm{chain}
}

type pidUser struct {
	Pid  uint64      `json:"pid"`
	User sfi.Address `json:"user"`
}

// call runs a const farm method, mapping reverts to http errors.
func (f *Farm) call(method string, args any) (any, error) {
	clause, err := utils.NewClause(builtin.Farm.Address, method, args)
	if err != nil {
		return nil, err
	}
	out, err := f.chain.Call(sfi.Address{}, clause)
	if err != nil {
		return nil, err
	}
	if err := utils.OutputError(out); err != nil {
		return nil, err
	}
	return out.Return, nil
}

type farmCall struct {
	method string
	args   any
}

// callBatch runs const farm methods against one block and returns their
// results together with that block's number.
func (f *Farm) callBatch(calls ...farmCall) ([]any, uint64, error) {
	clauses := make([]*runtime.Clause, 0, len(calls))
	for _, c := range calls {
		clause, err := utils.NewClause(builtin.Farm.Address, c.method, c.args)
		if err != nil {
			return nil, 0, err
		}
		clauses = append(clauses, clause)
	}
	outs, block, err := f.chain.CallBatch(sfi.Address{}, clauses)
	if err != nil {
		return nil, 0, err
	}
	rets := make([]any, 0, len(outs))
	for _, out := range outs {
		if err := utils.OutputError(out); err != nil {
			return nil, 0, err
		}
		rets = append(rets, out.Return)
	}
	return rets, block.Number, nil
}

func (f *Farm) poolLength() (uint64, error) {
	ret, err := f.call("poolLength", nil)
	if err != nil {
		return 0, err
	}
	return ret.(uint64), nil
}

func (f *Farm) pool(pid uint64) (*Pool, error) {
	ret, err := f.call("poolInfo", map[string]uint64{"pid": pid})
	if err != nil {
		return nil, err
	}
	return &Pool{pid, ret.(*builtin.PoolInfo)}, nil
}

func (f *Farm) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	rets, block, err := f.callBatch(
		farmCall{"owner", nil},
		farmCall{"rewarder", nil},
		farmCall{"sfiPerBlock", nil},
		farmCall{"rewardCutoff", nil},
		farmCall{"totalAllocPoint", nil},
		farmCall{"poolLength", nil},
	)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Schedule{
		Owner:           rets[0].(sfi.Address),
		Rewarder:        rets[1].(sfi.Address),
		SFIPerBlock:     rets[2].(*math.HexOrDecimal256),
		RewardCutoff:    rets[3].(uint64),
		TotalAllocPoint: rets[4].(*math.HexOrDecimal256),
		PoolLength:      rets[5].(uint64),
		Block:           block,
	})
}

func (f *Farm) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	n, err := f.poolLength()
	if err != nil {
		return err
	}
	pools := make([]*Pool, 0, n)
	for pid := uint64(0); pid < n; pid++ {
		p, err := f.pool(pid)
		if err != nil {
			return err
		}
		pools = append(pools, p)
	}
	return utils.WriteJSON(w, pools)
}

func (f *Farm) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.ParseUint64("pid", mux.Vars(req)["pid"])
	if err != nil {
		return err
	}
	p, err := f.pool(pid)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, p)
}

func (f *Farm) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.ParseUint64("pid", mux.Vars(req)["pid"])
	if err != nil {
		return err
	}
	user, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	args := &pidUser{pid, user}

	rets, block, err := f.callBatch(
		farmCall{"userInfo", args},
		farmCall{"pendingSFI", args},
	)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Position{
		Pid:        pid,
		User:       user,
		UserInfo:   rets[0].(*builtin.UserInfo),
		PendingSFI: rets[1].(*math.HexOrDecimal256),
		Block:      block,
	})
}

func (f *Farm) handleResolvePool(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.ParseAddress("asset", mux.Vars(req)["asset"])
	if err != nil {
		return err
	}
	ret, err := f.call("lpTokenPID", map[string]sfi.Address{"lpToken": asset})
	if err != nil {
		return err
	}
	pid, ok := ret.(uint64)
	if !ok {
		return errors.New("unexpected pid type")
	}
	p, err := f.pool(pid)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, p)
}

func (f *Farm) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/schedule").
		Methods(http.MethodGet).
		Name("GET /farm/schedule").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetSchedule))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /farm/pools").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPools))
	sub.Path("/pools/{pid:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /farm/pools/{pid}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPool))
	sub.Path("/pools/{pid:[0-9]+}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /farm/pools/{pid}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPosition))
	sub.Path("/assets/{asset}/pool").
		Methods(http.MethodGet).
		Name("GET /farm/assets/{asset}/pool").
		HandlerFunc(utils.WrapHandlerFunc(f.handleResolvePool))
}
