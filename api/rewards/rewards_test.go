// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/api/rewards"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/test/testpool"
)

func TestFund(t *testing.T) {
	p := testpool.New(t)
	router := mux.NewRouter()
	rewards.New(p.Engine).Mount(router, "/rewards")
	ts := httptest.NewServer(router)
	defer ts.Close()

	body := &rewards.FundRequest{Caller: testpool.Alice, Amount: (*math.HexOrDecimal256)(big.NewInt(500))}
	_, code := httpPost(t, ts.URL+"/rewards/fund", body)
	assert.Equal(t, http.StatusForbidden, code)

	body.Caller = testpool.Owner
	body.Amount = (*math.HexOrDecimal256)(big.NewInt(0))
	_, code = httpPost(t, ts.URL+"/rewards/fund", body)
	assert.Equal(t, http.StatusBadRequest, code)

	body.Amount = nil
	_, code = httpPost(t, ts.URL+"/rewards/fund", body)
	assert.Equal(t, http.StatusBadRequest, code)

	body.Amount = (*math.HexOrDecimal256)(big.NewInt(500))
	res, code := httpPost(t, ts.URL+"/rewards/fund", body)
	require.Equal(t, http.StatusOK, code, string(res))

	var summary rewards.Summary
	require.NoError(t, json.Unmarshal(res, &summary))
	assert.Equal(t, uint64(0), summary.CurrentPeriod)
	assert.Equal(t, uint64(1), summary.FundedBoundary)
	assert.Equal(t, "500", (*big.Int)(summary.RewardBalance).String())

	bal, err := p.Engine.Balance(pool.RewardAsset, testpool.Owner)
	require.NoError(t, err)
	assert.Equal(t, "999500", bal.String())

	p.Clock.Advance(250)
	res, err = httpGet(ts.URL + "/rewards")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(res, &summary))
	assert.Equal(t, uint64(2), summary.CurrentPeriod)
	assert.Equal(t, uint64(1), summary.FundedBoundary)
}

func httpGet(url string) ([]byte, error) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}
