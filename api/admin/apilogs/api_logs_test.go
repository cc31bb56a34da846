// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	var enabled atomic.Bool
	router := mux.NewRouter()
	New(&enabled).Mount(router, "/admin/apilogs")

	call := func(method, body string) (int, *LogStatus) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(method, "/admin/apilogs", strings.NewReader(body)))
		if rr.Code != http.StatusOK {
			return rr.Code, nil
		}
		var status LogStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		return rr.Code, &status
	}

	code, status := call(http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, status.Enabled)

	code, status = call(http.MethodPost, `{"enabled":true}`)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Enabled)
	assert.True(t, enabled.Load())

	code, status = call(http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Enabled)

	code, _ = call(http.MethodPost, `{"enabled":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, enabled.Load())

	code, status = call(http.MethodPost, `{"enabled":false}`)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, status.Enabled)
	assert.False(t, enabled.Load())

	code, _ = call(http.MethodPut, `{"enabled":true}`)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}
