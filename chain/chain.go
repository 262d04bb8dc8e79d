// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/cache"
	"github.com/saffron-finance/sfi-farm/co"
	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/genesis"
	"github.com/saffron-finance/sfi-farm/kv"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/runtime"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/state"
	"github.com/saffron-finance/sfi-farm/xenv"
)

const summaryCacheLimit = 512

var logger = log.WithContext("pkg", "chain")

// Chain is the node ledger. Clauses are executed one at a time against the
// block being built; Seal commits that block.
// It's thread-safe.
type Chain struct {
	kv      kv.GetPutter
	state   *state.State
	events  *eventdb.EventDB
	genesis string

	best    *BlockSummary
	pending *pendingBlock
	cached  *cache.LRU
	tick    co.Signal
	rw      sync.RWMutex
}

type pendingBlock struct {
	ctx      xenv.BlockContext
	txs      []sfi.Bytes32
	receipts []*Receipt
	events   []*eventdb.Event
}

func newPendingBlock(num, time uint64) *pendingBlock {
	return &pendingBlock{ctx: xenv.BlockContext{Number: num, Time: time}}
}

// New opens the chain stored in db. An empty db is initialized from gen.
// A db built from another genesis is rejected.
func New(db kv.GetPutter, events *eventdb.EventDB, gen *genesis.Genesis) (*Chain, error) {
	cached, err := cache.NewLRU(summaryCacheLimit)
	if err != nil {
		return nil, err
	}
	c := &Chain{
		kv:      db,
		state:   state.New(db),
		events:  events,
		genesis: gen.Name(),
		cached:  cached,
	}

	name, err := loadGenesisName(db)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, err
		}
		if err := c.writeGenesis(gen); err != nil {
			return nil, errors.Wrap(err, "write genesis")
		}
	} else if name != gen.Name() {
		return nil, errors.Errorf("genesis mismatch: stored %q, given %q", name, gen.Name())
	}

	bestNum, err := loadBestBlockNumber(db)
	if err != nil {
		return nil, errors.Wrap(err, "load best block")
	}
	best, err := loadBlockSummary(db, bestNum)
	if err != nil {
		return nil, errors.Wrap(err, "load best block")
	}
	c.best = best
	c.pending = newPendingBlock(best.Number+1, best.Time)
	metricBestBlock().Set(int64(best.Number))
	return c, nil
}

func (c *Chain) writeGenesis(gen *genesis.Genesis) error {
	evs, err := gen.Build(c.state)
	if err != nil {
		return err
	}
	ctx := &xenv.BlockContext{Number: 0, Time: gen.Config().LaunchTime}
	txCtx := &xenv.TransactionContext{}
	var dbEvents []*eventdb.Event
	for i, ev := range evs {
		dbEvents = append(dbEvents, eventdb.NewEvent(ctx, uint32(i), txCtx, ev))
	}
	if err := c.events.Insert(dbEvents); err != nil {
		return err
	}

	batch := c.kv.NewBatch()
	if err := saveBlockSummary(batch, &BlockSummary{Number: 0, Time: ctx.Time}); err != nil {
		return err
	}
	if err := saveBestBlockNumber(batch, 0); err != nil {
		return err
	}
	if err := saveGenesisName(batch, gen.Name()); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	logger.Info("genesis written", "name", gen.Name(), "events", len(evs))
	return nil
}

// txID derives a unique id for a clause from its position in the chain.
func txID(blockNum uint64, index int, origin sfi.Address, clause *runtime.Clause) sfi.Bytes32 {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], blockNum)
	binary.BigEndian.PutUint64(b[8:], uint64(index))
	data, _ := json.Marshal(clause)
	return sfi.Blake2b(b[:], origin.Bytes(), data)
}

// Execute runs the clause on behalf of origin in the pending block.
func (c *Chain) Execute(origin sfi.Address, clause *runtime.Clause) (*Result, error) {
	c.rw.Lock()
	defer c.rw.Unlock()

	p := c.pending
	txCtx := &xenv.TransactionContext{
		ID:     txID(p.ctx.Number, len(p.txs), origin, clause),
		Origin: origin,
	}
	out, err := runtime.New(c.state, p.ctx).Execute(clause, txCtx)
	if err != nil {
		metricClauseCount().AddWithLabel(1, map[string]string{"result": "error"})
		return nil, err
	}

	receipt := &Receipt{
		TxID:         txCtx.ID,
		BlockNumber:  p.ctx.Number,
		Origin:       origin,
		To:           clause.To,
		Method:       clause.Method,
		Reverted:     out.Reverted,
		RevertKind:   out.RevertKind,
		RevertReason: out.RevertReason,
		EventCount:   uint32(len(out.Events)),
	}
	for _, ev := range out.Events {
		p.events = append(p.events, eventdb.NewEvent(&p.ctx, uint32(len(p.events)), txCtx, ev))
	}
	p.txs = append(p.txs, txCtx.ID)
	p.receipts = append(p.receipts, receipt)

	result := "success"
	if out.Reverted {
		result = "reverted"
	}
	metricClauseCount().AddWithLabel(1, map[string]string{"result": result})
	return &Result{receipt, out}, nil
}

// Call runs a const clause against the pending block and discards its effects.
func (c *Chain) Call(caller sfi.Address, clause *runtime.Clause) (*runtime.Output, error) {
	// Call reverts the state journal, so it excludes Execute too.
	c.rw.Lock()
	defer c.rw.Unlock()

	return runtime.New(c.state, c.pending.ctx).Call(clause, caller)
}

// CallBatch runs const clauses against the same pending block. It returns
// their outputs and the context of the block they were run in.
func (c *Chain) CallBatch(caller sfi.Address, clauses []*runtime.Clause) ([]*runtime.Output, xenv.BlockContext, error) {
	c.rw.Lock()
	defer c.rw.Unlock()

	rt := runtime.New(c.state, c.pending.ctx)
	outputs := make([]*runtime.Output, 0, len(clauses))
	for _, clause := range clauses {
		out, err := rt.Call(clause, caller)
		if err != nil {
			return nil, xenv.BlockContext{}, err
		}
		outputs = append(outputs, out)
	}
	return outputs, c.pending.ctx, nil
}

// Seal commits the pending block and opens the next one at the given time.
// An empty pending block is sealed too, so block numbers track the clock.
func (c *Chain) Seal(nextTime uint64) (*BlockSummary, error) {
	c.rw.Lock()
	defer c.rw.Unlock()

	p := c.pending
	summary := &BlockSummary{
		Number: p.ctx.Number,
		Time:   p.ctx.Time,
		Txs:    p.txs,
	}

	if err := c.state.Stage().Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	if err := c.events.Insert(p.events); err != nil {
		return nil, errors.Wrap(err, "insert events")
	}

	batch := c.kv.NewBatch()
	for _, r := range p.receipts {
		if err := saveReceipt(batch, r); err != nil {
			return nil, err
		}
	}
	if err := saveBlockSummary(batch, summary); err != nil {
		return nil, err
	}
	if err := saveBestBlockNumber(batch, summary.Number); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, errors.Wrap(err, "write block")
	}

	c.cached.Add(summary.Number, summary)
	c.best = summary
	if nextTime < summary.Time {
		nextTime = summary.Time
	}
	c.pending = newPendingBlock(summary.Number+1, nextTime)

	metricBestBlock().Set(int64(summary.Number))
	c.tick.Broadcast()
	if len(summary.Txs) > 0 {
		logger.Debug("block sealed", "number", summary.Number, "txs", len(summary.Txs), "events", len(p.events))
	}
	return summary, nil
}

// BestBlock returns the last sealed block.
func (c *Chain) BestBlock() *BlockSummary {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.best
}

// NewTicker returns a channel closed when the next block is sealed.
func (c *Chain) NewTicker() <-chan struct{} {
	return c.tick.Wait()
}

// PendingBlock returns the context of the block being built.
func (c *Chain) PendingBlock() xenv.BlockContext {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.pending.ctx
}

// GetBlock returns the sealed block of the given number.
func (c *Chain) GetBlock(num uint64) (*BlockSummary, error) {
	v, err := c.cached.GetOrLoad(num, func(any) (any, error) {
		return loadBlockSummary(c.kv, num)
	})
	if err != nil {
		return nil, err
	}
	return v.(*BlockSummary), nil
}

// GetReceipt returns the receipt of a sealed clause.
func (c *Chain) GetReceipt(txID sfi.Bytes32) (*Receipt, error) {
	return loadReceipt(c.kv, txID)
}

// Events returns the event db.
func (c *Chain) Events() *eventdb.EventDB {
	return c.events
}

// GenesisName returns the name of the genesis the chain was built from.
func (c *Chain) GenesisName() string {
	return c.genesis
}

// IsNotFound returns if the error means not found.
func (c *Chain) IsNotFound(err error) bool {
	return c.kv.IsNotFound(errors.Cause(err))
}
