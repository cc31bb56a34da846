// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"
	"math/big"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/builtin/staker/globalstats"
	"github.com/vechain/tierstake/metrics"
)

var (
	metricOperations  = metrics.LazyLoadCounterVec("pool_operations_count", []string{"op", "outcome"})
	metricOpDuration  = metrics.LazyLoadHistogramVec("pool_operation_duration_ms", []string{"op"}, metrics.BucketOps)
	metricStorage     = metrics.LazyLoadCounterVec("pool_storage_words_count", []string{"kind"})
	metricTotalStaked = metrics.LazyLoadGauge("pool_total_staked")
	metricStakers     = metrics.LazyLoadGauge("pool_staker_count")
	metricRewards     = metrics.LazyLoadGauge("pool_reward_balance")
	metricBoundary    = metrics.LazyLoadGauge("pool_funded_boundary")
)

func recordStorage(meter *solidity.Meter) {
	metricStorage().AddWithLabel(clamp(new(big.Int).SetUint64(meter.Loads)), map[string]string{"kind": "load"})
	metricStorage().AddWithLabel(clamp(new(big.Int).SetUint64(meter.Stores)), map[string]string{"kind": "store"})
}

func recordStats(stats *globalstats.Stats, boundary uint64) {
	metricTotalStaked().Set(clamp(stats.TotalStaked))
	metricStakers().Set(clamp(stats.StakerCount))
	metricRewards().Set(clamp(stats.RewardBalance))
	metricBoundary().Set(clamp(new(big.Int).SetUint64(boundary)))
}

// clamp saturates v into an int64.
func clamp(v *big.Int) int64 {
	if v.IsInt64() {
		return v.Int64()
	}
	if v.Sign() < 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}
