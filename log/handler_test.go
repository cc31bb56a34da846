// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account [2]byte

func (a *account) String() string { return "0xabcd" }

func TestLogfmtHandlerWithLevel(t *testing.T) {
	out := new(bytes.Buffer)
	var level slog.LevelVar
	level.Set(LevelInfo)
	logger := NewLogger(LogfmtHandlerWithLevel(out, &level))

	logger.Debug("dropped")
	assert.Empty(t, out.String())

	var nilAccount *account
	logger.Info("staked", "amount", big.NewInt(1500), "account", &account{}, "owner", nilAccount, "none", (*big.Int)(nil))
	line := out.String()
	assert.Contains(t, line, "lvl=info")
	assert.Contains(t, line, "t=")
	assert.Contains(t, line, "amount=1500")
	assert.Contains(t, line, "account=0xabcd")
	assert.Contains(t, line, "owner=<nil>")
	assert.Contains(t, line, "none=<nil>")

	out.Reset()
	level.Set(LevelTrace)
	logger.Trace("now visible")
	assert.Contains(t, out.String(), "lvl=trace")
}

func TestJSONHandlerWithLevel(t *testing.T) {
	out := new(bytes.Buffer)
	var level slog.LevelVar
	level.Set(LevelWarn)
	logger := NewLogger(JSONHandlerWithLevel(out, &level))

	logger.Info("dropped")
	assert.Empty(t, out.String())

	logger.Warn("fund window missed", "period", uint64(7), "amount", big.NewInt(42))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "warn", rec["lvl"])
	assert.Equal(t, "fund window missed", rec["msg"])
	assert.Equal(t, "42", rec["amount"])
	assert.Equal(t, float64(7), rec["period"])
	assert.Contains(t, rec, "t")
}

func TestTerminalHandler_SharedOutput(t *testing.T) {
	out := new(bytes.Buffer)
	var level slog.LevelVar
	level.Set(LevelInfo)
	root := NewTerminalHandlerWithLevel(out, &level, false)

	staker := NewLogger(root.WithAttrs([]slog.Attr{slog.String("pkg", "staker")}))
	api := NewLogger(root.WithAttrs([]slog.Attr{slog.String("pkg", "api")}))

	staker.Info("stake added")
	api.Info("request served")
	api.Debug("dropped")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "INFO "))
	assert.Contains(t, lines[0], "pkg=staker")
	assert.NotContains(t, lines[0], "pkg=api")
	assert.Contains(t, lines[1], "pkg=api")
}
