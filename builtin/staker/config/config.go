// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"slices"

	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/staker/clock"
)

const (
	// BpsDenominator is the basis points denominator (100%).
	BpsDenominator = 10000
	// MaxTiers bounds the tier table, tier indexes are uint8.
	MaxTiers = 32
	// DefaultMaxLockPeriods applies when MaxLockPeriods is unset.
	DefaultMaxLockPeriods = 520
	// MaxLockPeriodsLimit bounds MaxLockPeriods. Every period a lock touches
	// is written on stake.
	MaxLockPeriodsLimit = 4096

	day = 24 * 60 * 60
)

// PoolConfig holds the pool parameters. StakingStartAt, RewardPeriodLength and
// the tier count are fixed once the pool is initialised.
type PoolConfig struct {
	StakingStartAt     uint64   `yaml:"staking-start-at" json:"stakingStartAt"`
	RewardPeriodLength uint64   `yaml:"reward-period-length" json:"rewardPeriodLength"`
	ForceExitFeeBps    uint16   `yaml:"force-exit-fee-bps" json:"forceExitFeeBps"`
	TierMinDurations   []uint64 `yaml:"tier-min-durations" json:"tierMinDurations"`
	TierRewardShareBps []uint16 `yaml:"tier-reward-share-bps" json:"tierRewardShareBps"`
	MaxLockPeriods     uint64   `yaml:"max-lock-periods,omitempty" json:"maxLockPeriods,omitempty" rlp:"optional"`
}

// Default returns a pool with weekly reward periods and four tiers
// (1 week, 1 month, 3 months, 6 months), starting at start.
func Default(start uint64) *PoolConfig {
	return &PoolConfig{
		StakingStartAt:     start,
		RewardPeriodLength: 7 * day,
		ForceExitFeeBps:    1000,
		TierMinDurations:   []uint64{7 * day, 30 * day, 90 * day, 180 * day},
		TierRewardShareBps: []uint16{1000, 2000, 3000, 4000},
		MaxLockPeriods:     DefaultMaxLockPeriods,
	}
}

// Validate checks the config is internally consistent.
func (c *PoolConfig) Validate() error {
	if c.RewardPeriodLength == 0 {
		return reverts.ErrInvalidConfig.Withf("reward period length must be positive")
	}
	if c.ForceExitFeeBps > BpsDenominator {
		return reverts.ErrInvalidConfig.Withf("force exit fee %d exceeds %d bps", c.ForceExitFeeBps, BpsDenominator)
	}
	if c.MaxLockPeriods > MaxLockPeriodsLimit {
		return reverts.ErrInvalidConfig.Withf("max lock periods %d exceeds %d", c.MaxLockPeriods, MaxLockPeriodsLimit)
	}
	if err := validateTiers(c.TierMinDurations, c.TierRewardShareBps); err != nil {
		return err
	}
	// the top tier must be reachable from any start time
	if top := c.TierMinDurations[len(c.TierMinDurations)-1]; top/c.RewardPeriodLength+2 > c.LockPeriods() {
		return reverts.ErrInvalidConfig.Withf("top tier spans more than %d periods", c.LockPeriods())
	}
	return nil
}

// LockPeriods returns how many reward periods a single lock may touch.
func (c *PoolConfig) LockPeriods() uint64 {
	if c.MaxLockPeriods == 0 {
		return DefaultMaxLockPeriods
	}
	return c.MaxLockPeriods
}

// CheckLock rejects a lock over [stakeAt, stakeAt+duration) touching more
// than LockPeriods periods. The caller has checked stakeAt+duration does not
// overflow.
func (c *PoolConfig) CheckLock(stakeAt, duration uint64) error {
	clk := c.Clock()
	if touched := clk.IndexOf(stakeAt+duration) - clk.IndexOf(stakeAt) + 1; touched > c.LockPeriods() {
		return reverts.ErrInvalidInput.Withf("lock of %ds touches %d periods, limit %d", duration, touched, c.LockPeriods())
	}
	return nil
}

func validateTiers(durations []uint64, shares []uint16) error {
	if len(durations) == 0 {
		return reverts.ErrInvalidConfig.Withf("no tiers")
	}
	if len(durations) > MaxTiers {
		return reverts.ErrInvalidConfig.Withf("%d tiers exceed the limit of %d", len(durations), MaxTiers)
	}
	if len(durations) != len(shares) {
		return reverts.ErrInvalidConfig.Withf("%d tier durations but %d tier shares", len(durations), len(shares))
	}
	for i := 1; i < len(durations); i++ {
		if durations[i] <= durations[i-1] {
			return reverts.ErrInvalidConfig.Withf("tier min durations must be strictly increasing")
		}
	}
	var sum uint64
	for _, bps := range shares {
		sum += uint64(bps)
	}
	if sum > BpsDenominator {
		return reverts.ErrInvalidConfig.Withf("tier shares sum to %d bps", sum)
	}
	return nil
}

// TierCount returns the number of tiers.
func (c *PoolConfig) TierCount() uint8 {
	return uint8(len(c.TierMinDurations))
}

// TierFor returns the highest tier whose min duration does not exceed
// duration, tier 0 when none does.
func (c *PoolConfig) TierFor(duration uint64) uint8 {
	for i := len(c.TierMinDurations) - 1; i > 0; i-- {
		if c.TierMinDurations[i] <= duration {
			return uint8(i)
		}
	}
	return 0
}

// Clock returns the reward period clock.
func (c *PoolConfig) Clock() clock.Clock {
	return clock.New(c.StakingStartAt, c.RewardPeriodLength)
}

// Copy returns a deep copy.
func (c *PoolConfig) Copy() *PoolConfig {
	cpy := *c
	cpy.TierMinDurations = slices.Clone(c.TierMinDurations)
	cpy.TierRewardShareBps = slices.Clone(c.TierRewardShareBps)
	return &cpy
}

// Update carries the owner-mutable parameters.
type Update struct {
	ForceExitFeeBps    uint16   `json:"forceExitFeeBps"`
	TierMinDurations   []uint64 `json:"tierMinDurations"`
	TierRewardShareBps []uint16 `json:"tierRewardShareBps"`
}

// Apply returns a copy of c with u applied. The tier count can't change.
func (c *PoolConfig) Apply(u *Update) (*PoolConfig, error) {
	if len(u.TierMinDurations) != len(c.TierMinDurations) {
		return nil, reverts.ErrInvalidConfig.Withf("tier count is fixed at %d", len(c.TierMinDurations))
	}
	next := c.Copy()
	next.ForceExitFeeBps = u.ForceExitFeeBps
	next.TierMinDurations = slices.Clone(u.TierMinDurations)
	next.TierRewardShareBps = slices.Clone(u.TierRewardShareBps)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}
