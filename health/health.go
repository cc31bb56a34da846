// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

// delayBuffer is the slack allowed past the tick interval.
const delayBuffer = 5 * time.Second

type Housekeeping struct {
	Period    uint64     `json:"period"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy      bool          `json:"healthy"`
	Housekeeping *Housekeeping `json:"housekeeping"`
	ClockChecked bool          `json:"clockChecked"`
	ClockOffset  string        `json:"clockOffset"`
}

// Health tracks the liveness of a running pool service. The housekeeping loop
// must keep ticking and, once measured, the local clock must stay within
// maxClockOffset of network time.
type Health struct {
	lock           sync.RWMutex
	lastTick       time.Time
	period         uint64
	clockChecked   bool
	clockOffset    time.Duration
	tickInterval   time.Duration
	maxClockOffset time.Duration
}

func New(tickInterval, maxClockOffset time.Duration) *Health {
	return &Health{
		tickInterval:   tickInterval,
		maxClockOffset: maxClockOffset,
	}
}

// Tick records a housekeeping pass that saw the given current period.
func (h *Health) Tick(period uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastTick = time.Now()
	h.period = period
}

// ClockOffset records the measured offset of the local clock.
func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockChecked = true
	h.clockOffset = offset
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{
		ClockChecked: h.clockChecked,
		ClockOffset:  h.clockOffset.String(),
	}
	if !h.lastTick.IsZero() {
		lastTick := h.lastTick
		status.Housekeeping = &Housekeeping{
			Period:    h.period,
			Timestamp: &lastTick,
		}
	}

	offset := h.clockOffset
	if offset < 0 {
		offset = -offset
	}
	status.Healthy = !h.lastTick.IsZero() &&
		time.Since(h.lastTick) <= h.tickInterval+delayBuffer &&
		(!h.clockChecked || offset <= h.maxClockOffset)

	return status, nil
}
