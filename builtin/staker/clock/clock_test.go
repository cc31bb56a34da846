// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexOf(t *testing.T) {
	c := New(1000, 100)

	tests := []struct {
		t    uint64
		want uint64
	}{
		{0, 0},
		{999, 0},
		{1000, 0},
		{1001, 0},
		{1099, 0},
		{1100, 1},
		{1199, 1},
		{1200, 2},
		{1000 + 100*365, 365},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IndexOf(tt.t), "t=%d", tt.t)
	}
}

func TestStartEnd(t *testing.T) {
	c := New(1000, 100)
	for i := range uint64(10) {
		assert.Equal(t, c.End(i), c.Start(i+1))
		assert.Equal(t, i, c.IndexOf(c.Start(i)))
		assert.Equal(t, i, c.IndexOf(c.End(i)-1))
		assert.Equal(t, i+1, c.IndexOf(c.End(i)))
	}
	assert.Equal(t, uint64(100), c.Length())
}

func TestOverlap(t *testing.T) {
	c := New(1000, 100)

	assert.Equal(t, uint64(100), c.Overlap(1, 1000, 2000))
	assert.Equal(t, uint64(25), c.Overlap(1, 1175, 2000))
	assert.Equal(t, uint64(50), c.Overlap(2, 1175, 1250))
	assert.Equal(t, uint64(0), c.Overlap(3, 1175, 1250))
	// period 0 takes time before the clock start
	assert.Equal(t, uint64(150), c.Overlap(0, 950, 1100))
	assert.Equal(t, uint64(0), c.Overlap(1, 1100, 1100))
}

func TestZeroLength(t *testing.T) {
	assert.Panics(t, func() { New(0, 0) })
}
