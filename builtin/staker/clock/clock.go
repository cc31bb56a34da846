// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock maps timestamps onto fixed-length reward periods.
package clock

// Clock divides time into consecutive periods of Length seconds starting at
// Start. Period 0 also absorbs every instant at or before Start.
type Clock struct {
	start  uint64
	length uint64
}

// New creates a clock. length must be positive.
func New(start, length uint64) Clock {
	if length == 0 {
		panic("clock: zero period length")
	}
	return Clock{start: start, length: length}
}

// IndexOf returns the index of the period containing t.
// A timestamp exactly on a boundary belongs to the period it opens.
func (c Clock) IndexOf(t uint64) uint64 {
	if t <= c.start {
		return 0
	}
	return (t - c.start) / c.length
}

// Start returns the first instant of period i.
func (c Clock) Start(i uint64) uint64 {
	return c.start + i*c.length
}

// End returns the first instant after period i.
func (c Clock) End(i uint64) uint64 {
	return c.start + (i+1)*c.length
}

// Length returns the period length in seconds.
func (c Clock) Length() uint64 {
	return c.length
}

// Overlap returns how many seconds of [from, to) fall into period i.
// Period 0 is unbounded below.
func (c Clock) Overlap(i, from, to uint64) uint64 {
	lo := from
	if i > 0 {
		lo = max(from, c.Start(i))
	}
	hi := min(to, c.End(i))
	if hi <= lo {
		return 0
	}
	return hi - lo
}
