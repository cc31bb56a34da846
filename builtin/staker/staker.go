// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/builtin/staker/account"
	"github.com/vechain/tierstake/builtin/staker/clock"
	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/builtin/staker/globalstats"
	"github.com/vechain/tierstake/builtin/staker/ledger"
	"github.com/vechain/tierstake/builtin/staker/rewards"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

var (
	logger = log.WithContext("pkg", "staker")

	bigBps = big.NewInt(config.BpsDenominator)
)

func SetLogger(l log.Logger) {
	logger = l
}

// Transferer moves an asset between an account and the pool.
type Transferer interface {
	Debit(from types.Address, amount *big.Int) error
	Credit(to types.Address, amount *big.Int) error
}

// Staker implements native methods of the staking pool contract.
type Staker struct {
	configService      *config.Service
	accountService     *account.Service
	ledgerService      *ledger.Service
	rewardsService     *rewards.Service
	globalStatsService *globalstats.Service

	stakeAsset  Transferer
	rewardAsset Transferer

	events []*Event
}

// New create a new instance. meter may be nil.
func New(addr types.Address, state *state.State, meter *solidity.Meter, stakeAsset, rewardAsset Transferer) *Staker {
	sctx := solidity.NewContext(addr, state, meter)
	rewardsService := rewards.New(sctx)

	return &Staker{
		configService:      config.New(sctx),
		accountService:     account.New(sctx),
		ledgerService:      ledger.New(sctx, rewardsService),
		rewardsService:     rewardsService,
		globalStatsService: globalstats.New(sctx),
		stakeAsset:         stakeAsset,
		rewardAsset:        rewardAsset,
	}
}

// Initialize stores the pool config. It returns false without touching
// anything when the pool is already initialised.
func (s *Staker) Initialize(cfg *config.PoolConfig) (bool, error) {
	current, err := s.configService.Get()
	if err != nil {
		return false, err
	}
	if current != nil {
		return false, nil
	}
	if err := s.configService.Set(cfg); err != nil {
		return false, err
	}
	logger.Info("pool initialised",
		"start", cfg.StakingStartAt,
		"period", cfg.RewardPeriodLength,
		"tiers", len(cfg.TierMinDurations),
	)
	return true, nil
}

// UpdateConfig replaces the owner-mutable parameters.
func (s *Staker) UpdateConfig(u *config.Update) error {
	logger.Debug("updating config", "fee", u.ForceExitFeeBps, "durations", u.TierMinDurations, "shares", u.TierRewardShareBps)

	cfg, err := s.configService.MustGet()
	if err != nil {
		return err
	}
	next, err := cfg.Apply(u)
	if err != nil {
		logger.Info("update config failed", "error", err)
		return err
	}
	if err := s.configService.Set(next); err != nil {
		return err
	}
	s.emit(&Event{Kind: EventConfigUpdated})

	logger.Info("updated config")
	return nil
}

//
// Getters - no state change
//

// Config returns a copy of the pool config.
func (s *Staker) Config() (*config.PoolConfig, error) {
	cfg, err := s.configService.MustGet()
	if err != nil {
		return nil, err
	}
	return cfg.Copy(), nil
}

// Clock returns the reward period clock.
func (s *Staker) Clock() (clock.Clock, error) {
	cfg, err := s.configService.MustGet()
	if err != nil {
		return clock.Clock{}, err
	}
	return cfg.Clock(), nil
}

// TierFor resolves the tier of a lock duration.
func (s *Staker) TierFor(duration uint64) (uint8, error) {
	cfg, err := s.configService.MustGet()
	if err != nil {
		return 0, err
	}
	return cfg.TierFor(duration), nil
}

// FundedBoundary returns the lowest unfunded period index.
func (s *Staker) FundedBoundary() (uint64, error) {
	return s.rewardsService.FundedBoundary()
}

// Account returns the stored record of addr.
func (s *Staker) Account(addr types.Address) (*account.Account, error) {
	acc, err := s.accountService.Get(addr)
	if err != nil {
		return nil, err
	}
	return acc.Copy(), nil
}

// RewardRecord returns the reward deposited for period, nil when unfunded.
func (s *Staker) RewardRecord(period uint64) (*rewards.Record, error) {
	return s.rewardsService.Get(period)
}

// TierTotals returns the aggregate share units of every tier in period.
func (s *Staker) TierTotals(period uint64) ([]*big.Int, error) {
	cfg, err := s.configService.MustGet()
	if err != nil {
		return nil, err
	}
	totals := make([]*big.Int, cfg.TierCount())
	for t := range totals {
		if totals[t], err = s.ledgerService.Total(period, uint8(t)); err != nil {
			return nil, err
		}
	}
	return totals, nil
}

// AccountShares returns the share units addr holds in every tier of period.
func (s *Staker) AccountShares(period uint64, addr types.Address) ([]*big.Int, error) {
	cfg, err := s.configService.MustGet()
	if err != nil {
		return nil, err
	}
	shares := make([]*big.Int, cfg.TierCount())
	for t := range shares {
		if shares[t], err = s.ledgerService.Share(period, uint8(t), addr); err != nil {
			return nil, err
		}
	}
	return shares, nil
}

// Stats returns the pool-wide counters.
func (s *Staker) Stats() (*globalstats.Stats, error) {
	return s.globalStatsService.Get()
}

// Events returns the events emitted by operations on this instance.
func (s *Staker) Events() []*Event {
	return s.events
}

func (s *Staker) emit(ev *Event) {
	s.events = append(s.events, ev)
}
