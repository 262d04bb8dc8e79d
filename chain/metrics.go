// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/saffron-finance/sfi-farm/metrics"

var (
	metricClauseCount = metrics.LazyLoadCounterVec("chain_clause_count", []string{"result"})
	metricBestBlock   = metrics.LazyLoadGauge("chain_best_block")
)
