// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	require.IsType(t, &noopMetrics{}, metrics)

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	// every meter accepts input and records nothing
	Counter("pool_stake_count").Add(1)
	CounterVec("pool_op_count", []string{"op"}).AddWithLabel(1, map[string]string{"op": "stake"})
	Gauge("pool_total_staked").Set(100)
	GaugeVec("state_cache", []string{"type"}).SetWithLabel(3, map[string]string{"type": "hit"})
	Histogram("pool_op_duration_ms", nil).Observe(12)
	HistogramVec("api_duration_ms", []string{"name"}, nil).ObserveWithLabels(5, map[string]string{"unknown": "label"})

	lazy := LazyLoadCounter("lazy_count")
	lazy().Add(1)
	assert.Same(t, lazy(), lazy())

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
