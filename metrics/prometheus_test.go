// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	m := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		m[mf.GetName()] = mf
	}
	return m
}

// byLabel indexes the metrics of a family by the value of one label.
func byLabel(mf *dto.MetricFamily, label string) map[string]*dto.Metric {
	out := make(map[string]*dto.Metric)
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == label {
				out[l.GetValue()] = m
			}
		}
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	ops := CounterVec("test_op_count", []string{"op", "outcome"})
	ops.AddWithLabel(1, map[string]string{"op": "stake", "outcome": "ok"})
	ops.AddWithLabel(1, map[string]string{"op": "stake", "outcome": "ok"})
	ops.AddWithLabel(1, map[string]string{"op": "claim", "outcome": "revert"})

	Counter("test_fund_count").Add(3)
	// same name resolves to the same meter
	Counter("test_fund_count").Add(2)

	staked := Gauge("test_total_staked")
	staked.Set(1000)
	staked.Add(-250)

	cache := GaugeVec("test_state_cache", []string{"type"})
	cache.SetWithLabel(7, map[string]string{"type": "hit"})
	cache.SetWithLabel(2, map[string]string{"type": "miss"})
	cache.AddWithLabel(1, map[string]string{"type": "miss"})

	duration := Histogram("test_op_duration_ms", []int64{10, 100})
	duration.Observe(5)
	duration.Observe(50)
	HistogramVec("test_api_duration_ms", []string{"name"}, nil).
		ObserveWithLabels(20, map[string]string{"name": "GET /pool/status"})

	families := gather(t)

	byOp := byLabel(families["tierstake_test_op_count"], "op")
	assert.Equal(t, float64(2), byOp["stake"].GetCounter().GetValue())
	assert.Equal(t, float64(1), byOp["claim"].GetCounter().GetValue())

	assert.Equal(t, float64(5), families["tierstake_test_fund_count"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(750), families["tierstake_test_total_staked"].GetMetric()[0].GetGauge().GetValue())

	byType := byLabel(families["tierstake_test_state_cache"], "type")
	assert.Equal(t, float64(7), byType["hit"].GetGauge().GetValue())
	assert.Equal(t, float64(3), byType["miss"].GetGauge().GetValue())

	hist := families["tierstake_test_op_duration_ms"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.Equal(t, float64(55), hist.GetSampleSum())
	require.Len(t, hist.GetBucket(), 2)
	assert.Equal(t, uint64(1), hist.GetBucket()[0].GetCumulativeCount())

	byName := byLabel(families["tierstake_test_api_duration_ms"], "name")
	assert.Equal(t, float64(20), byName["GET /pool/status"].GetHistogram().GetSampleSum())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	lazyGauge := LazyLoadGauge("lazy_gauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazy_gauge_vec", nil)
	lazyCounter := LazyLoadCounter("lazy_counter")
	lazyCounterVec := LazyLoadCounterVec("lazy_counter_vec", nil)
	lazyHistogram := LazyLoadHistogram("lazy_histogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazy_histogram_vec", nil, nil)

	// resolved on first call, after the backend is chosen
	InitializePrometheusMetrics()

	assert.IsType(t, &promGaugeMeter{}, lazyGauge())
	assert.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	assert.IsType(t, &promCountMeter{}, lazyCounter())
	assert.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	assert.IsType(t, &promHistogramMeter{}, lazyHistogram())
	assert.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
