// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Tick(t *testing.T) {
	h := New(10*time.Second, time.Second)

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Nil(t, status.Housekeeping)

	h.Tick(7)

	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	require.NotNil(t, status.Housekeeping)
	assert.Equal(t, uint64(7), status.Housekeeping.Period)
	assert.WithinDuration(t, time.Now(), *status.Housekeeping.Timestamp, time.Second)
	assert.False(t, status.ClockChecked)
}

func TestHealth_StaleTick(t *testing.T) {
	h := New(time.Second, time.Second)
	h.Tick(1)
	h.lastTick = time.Now().Add(-time.Minute)

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
}

func TestHealth_ClockOffset(t *testing.T) {
	h := New(10*time.Second, time.Second)
	h.Tick(1)

	h.ClockOffset(-500 * time.Millisecond)
	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.True(t, status.ClockChecked)
	assert.Equal(t, "-500ms", status.ClockOffset)

	h.ClockOffset(-2 * time.Second)
	status, err = h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)

	h.ClockOffset(3 * time.Second)
	status, err = h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
}
