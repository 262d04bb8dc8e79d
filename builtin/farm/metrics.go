// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import "github.com/saffron-finance/sfi-farm/metrics"

var (
	metricDepositCount = metrics.LazyLoadCounterVec("farm_stake_ops_count", []string{"type"})
	metricRewardPaid   = metrics.LazyLoadCounter("farm_reward_payout_count")
	metricPoolCount    = metrics.LazyLoadGauge("farm_pool_count")
)
