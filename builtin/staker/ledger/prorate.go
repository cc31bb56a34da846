// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/tierstake/builtin/staker/clock"
)

// Allocation is the share units a stake contributes to one period.
type Allocation struct {
	Period uint64
	Units  *big.Int
}

// Prorate splits amount locked over [stakeAt, stakeAt+duration) across the
// touched periods, each receiving amount*overlap*ShareMultiplier/duration
// units. Periods with no overlap are omitted. duration must be positive.
func Prorate(c clock.Clock, amount *big.Int, stakeAt, duration uint64) []Allocation {
	unlockAt := stakeAt + duration
	first, last := c.IndexOf(stakeAt), c.IndexOf(unlockAt)

	scaled := Units(amount)
	dur := new(big.Int).SetUint64(duration)

	allocations := make([]Allocation, 0, last-first+1)
	for p := first; p <= last; p++ {
		overlap := c.Overlap(p, stakeAt, unlockAt)
		if overlap == 0 {
			continue
		}
		units := new(big.Int).Mul(scaled, new(big.Int).SetUint64(overlap))
		units.Quo(units, dur)
		allocations = append(allocations, Allocation{Period: p, Units: units})
	}
	return allocations
}
