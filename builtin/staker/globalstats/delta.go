// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import "math/big"

// Delta is the change an operation applies to the pool-wide counters.
type Delta struct {
	StakeIncrease  *big.Int
	StakeDecrease  *big.Int
	StakersJoined  uint64
	StakersLeft    uint64
	RewardsFunded  *big.Int
	RewardsClaimed *big.Int
	FeesCollected  *big.Int
}

func NewDelta() *Delta {
	return &Delta{
		StakeIncrease:  new(big.Int),
		StakeDecrease:  new(big.Int),
		RewardsFunded:  new(big.Int),
		RewardsClaimed: new(big.Int),
		FeesCollected:  new(big.Int),
	}
}

// Add sets d to the sum of itself and other.
func (d *Delta) Add(other *Delta) *Delta {
	if other == nil {
		return d
	}
	d.StakeIncrease.Add(d.StakeIncrease, other.StakeIncrease)
	d.StakeDecrease.Add(d.StakeDecrease, other.StakeDecrease)
	d.StakersJoined += other.StakersJoined
	d.StakersLeft += other.StakersLeft
	d.RewardsFunded.Add(d.RewardsFunded, other.RewardsFunded)
	d.RewardsClaimed.Add(d.RewardsClaimed, other.RewardsClaimed)
	d.FeesCollected.Add(d.FeesCollected, other.FeesCollected)
	return d
}

// TrackStake records an account stake moving from before to after.
func (d *Delta) TrackStake(before, after *big.Int) *Delta {
	switch before.Cmp(after) {
	case -1:
		d.StakeIncrease.Add(d.StakeIncrease, new(big.Int).Sub(after, before))
	case 1:
		d.StakeDecrease.Add(d.StakeDecrease, new(big.Int).Sub(before, after))
	}
	if before.Sign() == 0 && after.Sign() > 0 {
		d.StakersJoined++
	}
	if before.Sign() > 0 && after.Sign() == 0 {
		d.StakersLeft++
	}
	return d
}
