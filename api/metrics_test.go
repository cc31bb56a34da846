// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/api/accounts"
	"github.com/vechain/tierstake/metrics"
	"github.com/vechain/tierstake/test"
	"github.com/vechain/tierstake/test/testpool"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func labelsOf(m *dto.Metric) map[string]string {
	labels := make(map[string]string)
	for _, l := range m.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	return labels
}

func TestMetricsMiddleware(t *testing.T) {
	p := testpool.New(t)

	router := mux.NewRouter()
	accounts.New(p.Engine).Mount(router, "/accounts")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	_, code := httpGet(t, ts.URL+"/accounts/0x")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/accounts/"+testpool.Alice.String())
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/accounts/"+testpool.Bob.String())
	assert.Equal(t, http.StatusOK, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["tierstake_api_request_count"].GetMetric() {
		labels := labelsOf(m)
		assert.Equal(t, "GET /accounts/{address}", labels["name"])
		assert.Equal(t, "GET", labels["method"])
		counts[labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"200": 2, "400": 1}, counts)

	assert.NotEmpty(t, families["tierstake_api_duration_ms"].GetMetric())
}

func TestWebsocketMetrics(t *testing.T) {
	p := testpool.New(t)

	logging := &atomic.Bool{}
	logging.Store(true)
	handler := New(p.Engine, Options{AllowedOrigins: "*", EventsLimit: 10, EnableMetrics: true, EnableReqLogger: logging})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	activeCount := func() (float64, error) {
		families, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			return 0, err
		}
		for _, mf := range families {
			if mf.GetName() != "tierstake_api_active_websocket_count" {
				continue
			}
			for _, m := range mf.GetMetric() {
				if labelsOf(m)["subject"] == "events" {
					return m.GetGauge().GetValue(), nil
				}
			}
		}
		return 0, nil
	}
	expectActive := func(want float64) {
		err := test.Retry(func() error {
			got, err := activeCount()
			if err != nil {
				return err
			}
			if got != want {
				return errors.Errorf("active websockets %v, want %v", got, want)
			}
			return nil
		}, 10*time.Millisecond, 5*time.Second)
		require.NoError(t, err)
	}

	// upgrades pass through the compression, logging and metrics wrappers
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events"}
	header := http.Header{"Accept-Encoding": {"gzip"}}
	conn1, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	require.NoError(t, err)
	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	require.NoError(t, err)
	expectActive(2)

	conn1.Close()
	expectActive(1)
	conn2.Close()
	expectActive(0)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}
