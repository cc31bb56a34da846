// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	poolapi "github.com/vechain/tierstake/api/pool"
	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/test/testpool"
)

func initPoolServer(t *testing.T) (*testpool.Pool, *httptest.Server) {
	p := testpool.New(t)
	router := mux.NewRouter()
	poolapi.New(p.Engine).Mount(router, "/pool")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return p, ts
}

func TestPool(t *testing.T) {
	p, ts := initPoolServer(t)

	tests := []struct {
		name string
		fn   func(*testing.T)
	}{
		{"getConfig", func(t *testing.T) { getConfig(t, ts) }},
		{"getStatus", func(t *testing.T) { getStatus(t, p, ts) }},
		{"getClock", func(t *testing.T) { getClock(t, ts) }},
		{"getTier", func(t *testing.T) { getTier(t, ts) }},
		{"getPeriod", func(t *testing.T) { getPeriod(t, p, ts) }},
		{"ownerControls", func(t *testing.T) { ownerControls(t, p, ts) }},
		{"updateConfig", func(t *testing.T) { updateConfig(t, ts) }},
		{"badRequestBody", func(t *testing.T) { badRequestBody(t, ts) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.fn)
	}
}

func getConfig(t *testing.T, ts *httptest.Server) {
	res, code := httpGet(t, ts.URL+"/pool/config")
	require.Equal(t, http.StatusOK, code)

	var cfg config.PoolConfig
	require.NoError(t, json.Unmarshal(res, &cfg))
	assert.Equal(t, *testpool.Config(), cfg)
}

func getStatus(t *testing.T, p *testpool.Pool, ts *httptest.Server) {
	require.NoError(t, p.Engine.Stake(testpool.Alice, 100, big.NewInt(100)))

	res, code := httpGet(t, ts.URL+"/pool/status")
	require.Equal(t, http.StatusOK, code)

	var status poolapi.Status
	require.NoError(t, json.Unmarshal(res, &status))
	assert.Equal(t, testpool.Owner, status.Owner)
	assert.False(t, status.Paused)
	assert.Equal(t, "100", (*big.Int)(status.TotalStaked).String())
	assert.Equal(t, "1", (*big.Int)(status.StakerCount).String())
}

func getClock(t *testing.T, ts *httptest.Server) {
	res, code := httpGet(t, ts.URL+"/pool/clock?time=1250")
	require.Equal(t, http.StatusOK, code)

	var clock poolapi.Clock
	require.NoError(t, json.Unmarshal(res, &clock))
	assert.Equal(t, poolapi.Clock{Time: 1250, Period: 2, Start: 1200, End: 1300}, clock)

	_, code = httpGet(t, ts.URL+"/pool/clock?time=abc")
	assert.Equal(t, http.StatusBadRequest, code)
}

func getTier(t *testing.T, ts *httptest.Server) {
	tests := []struct {
		duration string
		tier     uint8
	}{
		{"50", 0},
		{"100", 0},
		{"200", 1},
		{"399", 1},
		{"100000", 3},
	}
	for _, tt := range tests {
		res, code := httpGet(t, ts.URL+"/pool/tier?duration="+tt.duration)
		require.Equal(t, http.StatusOK, code)

		var tier poolapi.Tier
		require.NoError(t, json.Unmarshal(res, &tier))
		assert.Equal(t, tt.tier, tier.Tier, tt.duration)
	}

	_, code := httpGet(t, ts.URL+"/pool/tier")
	assert.Equal(t, http.StatusBadRequest, code)
}

func getPeriod(t *testing.T, p *testpool.Pool, ts *httptest.Server) {
	res, code := httpGet(t, ts.URL+"/pool/periods/0")
	require.Equal(t, http.StatusOK, code)

	var period poolapi.Period
	require.NoError(t, json.Unmarshal(res, &period))
	assert.False(t, period.Funded)
	assert.Nil(t, period.Reward)
	assert.Len(t, period.TierTotals, 4)

	require.NoError(t, p.Engine.Fund(testpool.Owner, big.NewInt(1000)))

	res, code = httpGet(t, ts.URL+"/pool/periods/0")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(res, &period))
	assert.True(t, period.Funded)
	require.NotNil(t, period.Reward)
	assert.Equal(t, "1000", (*big.Int)(period.Reward.Amount).String())

	_, code = httpGet(t, ts.URL+"/pool/periods/x")
	assert.Equal(t, http.StatusBadRequest, code)
}

func ownerControls(t *testing.T, p *testpool.Pool, ts *httptest.Server) {
	_, code := httpPost(t, ts.URL+"/pool/pause", &poolapi.PauseRequest{Caller: testpool.Alice, Paused: true})
	assert.Equal(t, http.StatusForbidden, code)

	res, code := httpPost(t, ts.URL+"/pool/pause", &poolapi.PauseRequest{Caller: testpool.Owner, Paused: true})
	require.Equal(t, http.StatusOK, code)
	var status poolapi.Status
	require.NoError(t, json.Unmarshal(res, &status))
	assert.True(t, status.Paused)

	assert.Error(t, p.Engine.Stake(testpool.Bob, 100, big.NewInt(1)))

	_, code = httpPost(t, ts.URL+"/pool/pause", &poolapi.PauseRequest{Caller: testpool.Owner, Paused: false})
	require.Equal(t, http.StatusOK, code)

	res, code = httpPost(t, ts.URL+"/pool/owner", &poolapi.OwnerRequest{Caller: testpool.Owner, Owner: testpool.Bob})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(res, &status))
	assert.Equal(t, testpool.Bob, status.Owner)

	_, code = httpPost(t, ts.URL+"/pool/owner", &poolapi.OwnerRequest{Caller: testpool.Owner, Owner: testpool.Alice})
	assert.Equal(t, http.StatusForbidden, code)

	_, code = httpPost(t, ts.URL+"/pool/owner", &poolapi.OwnerRequest{Caller: testpool.Bob, Owner: testpool.Owner})
	require.Equal(t, http.StatusOK, code)
}

func updateConfig(t *testing.T, ts *httptest.Server) {
	body := &poolapi.ConfigRequest{
		Caller: testpool.Owner,
		Update: config.Update{
			ForceExitFeeBps:    500,
			TierMinDurations:   []uint64{100, 200, 400, 800},
			TierRewardShareBps: []uint16{1000, 2000, 3000, 4000},
		},
	}
	res, code := httpPost(t, ts.URL+"/pool/config", body)
	require.Equal(t, http.StatusOK, code, string(res))

	var cfg config.PoolConfig
	require.NoError(t, json.Unmarshal(res, &cfg))
	assert.Equal(t, uint16(500), cfg.ForceExitFeeBps)
	assert.Equal(t, []uint16{1000, 2000, 3000, 4000}, cfg.TierRewardShareBps)

	body.TierMinDurations = []uint64{100}
	body.TierRewardShareBps = []uint16{10000}
	_, code = httpPost(t, ts.URL+"/pool/config", body)
	assert.Equal(t, http.StatusBadRequest, code)
}

func badRequestBody(t *testing.T, ts *httptest.Server) {
	_, code := httpPost(t, ts.URL+"/pool/pause", map[string]any{"caller": testpool.Owner.String(), "unknown": 1})
	assert.Equal(t, http.StatusBadRequest, code)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)

	res, err := http.Post(url, "application/x-www-form-urlencoded", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}
