// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"
	"time"

	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/co"
	"github.com/saffron-finance/sfi-farm/health"
	"github.com/saffron-finance/sfi-farm/log"
)

var logger = log.WithContext("pkg", "solo")

type Options struct {
	// BlockInterval is the number of seconds between sealed blocks.
	BlockInterval uint64
}

// Solo seals blocks of a standalone chain on a fixed clock.
type Solo struct {
	chain   *chain.Chain
	health  *health.Health
	options Options
}

// New returns Solo instance. h may be nil.
func New(chain *chain.Chain, h *health.Health, options Options) *Solo {
	if options.BlockInterval == 0 {
		options.BlockInterval = 1
	}
	return &Solo{
		chain:   chain,
		health:  h,
		options: options,
	}
}

// Run seals blocks until ctx is done.
func (s *Solo) Run(ctx context.Context) error {
	goes := &co.Goes{}

	defer func() {
		<-ctx.Done()
		goes.Wait()
	}()

	logger.Info("prepared to seal blocks", "interval", s.options.BlockInterval)

	goes.Go(func() {
		s.loop(ctx)
	})

	return nil
}

func (s *Solo) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval sealing service......")
			return
		case <-time.After(time.Second):
			s.tick(uint64(time.Now().Unix()))
		}
	}
}

// tick seals the pending block when now falls on an interval boundary.
func (s *Solo) tick(now uint64) bool {
	if now%s.options.BlockInterval != 0 {
		return false
	}
	summary, err := s.chain.Seal(now)
	if err != nil {
		logger.Error("failed to seal block", "err", err)
		return false
	}
	if s.health != nil {
		s.health.NewBestBlock(summary.Number)
	}
	logger.Debug("sealed block", "number", summary.Number, "txs", len(summary.Txs))
	return true
}
