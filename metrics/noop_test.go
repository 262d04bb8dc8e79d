// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()
	assert.Nil(t, noop.GetOrCreateHandler())

	// none of these may panic
	noop.GetOrCreateCountMeter("count1").Add(1)
	noop.GetOrCreateCountVecMeter("countVec1", []string{"zeroOrOne"}).AddWithLabel(1, map[string]string{"thisIsNonsense": "butDoesntBreak"})
	noop.GetOrCreateGaugeMeter("gauge1").Set(3)
	noop.GetOrCreateGaugeVecMeter("gaugeVec1", []string{"zeroOrOne"}).SetWithLabel(1, nil)
	noop.GetOrCreateHistogramMeter("hist1", nil).Observe(1)
	noop.GetOrCreateHistogramVecMeter("hist2", []string{"zeroOrOne"}, nil).ObserveWithLabels(1, nil)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return 42
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 42, get())
	assert.Equal(t, 42, get())
	assert.Equal(t, 1, calls)
}
