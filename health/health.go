// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

// BlockSealing reports the last sealed block seen by the tracker.
type BlockSealing struct {
	Number    *uint64    `json:"number"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy      bool          `json:"healthy"`
	BlockSealing *BlockSealing `json:"blockSealing"`
}

// Health tracks whether blocks are still being sealed.
type Health struct {
	lock      sync.RWMutex
	tolerance time.Duration
	sealedAt  time.Time
	best      *uint64
	now       func() time.Time
}

// New returns a tracker that reports unhealthy once no block was sealed
// within tolerance. The tracker starts healthy.
func New(tolerance time.Duration) *Health {
	return &Health{
		tolerance: tolerance,
		sealedAt:  time.Now(),
		now:       time.Now,
	}
}

func (h *Health) NewBestBlock(number uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.sealedAt = h.now()
	h.best = &number
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	sealedAt := h.sealedAt
	return &Status{
		Healthy: h.now().Sub(sealedAt) <= h.tolerance,
		BlockSealing: &BlockSealing{
			Number:    h.best,
			Timestamp: &sealedAt,
		},
	}
}
