// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"slices"

	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/staker/account"
	"github.com/vechain/tierstake/builtin/staker/globalstats"
	"github.com/vechain/tierstake/builtin/staker/rewards"
	"github.com/vechain/tierstake/types"
)

// Fund deposits amount as the reward of the period containing now and
// freezes that period and every one before it. Funding a period twice
// replaces the earlier record.
func (s *Staker) Fund(funder types.Address, amount *big.Int, now uint64) error {
	logger.Debug("funding rewards", "funder", funder, "amount", amount)

	period, err := s.fund(funder, amount, now)
	if err != nil {
		logger.Info("fund rewards failed", "funder", funder, "error", err)
		return err
	}

	logger.Info("funded rewards", "period", period, "amount", amount)
	return nil
}

func (s *Staker) fund(funder types.Address, amount *big.Int, now uint64) (uint64, error) {
	if amount == nil || amount.Sign() <= 0 {
		return 0, reverts.ErrInvalidInput.Withf("amount must be positive")
	}
	cfg, err := s.configService.MustGet()
	if err != nil {
		return 0, err
	}

	period := cfg.Clock().IndexOf(now)
	existing, err := s.rewardsService.Get(period)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		logger.Warn("overwriting reward record", "period", period, "previous", existing.Amount, "amount", amount)
	}

	if err := s.rewardsService.Set(period, &rewards.Record{
		FundedAt:     now,
		Amount:       new(big.Int).Set(amount),
		TierShareBps: slices.Clone(cfg.TierRewardShareBps),
	}); err != nil {
		return 0, err
	}
	if err := s.rewardsService.Advance(period + 1); err != nil {
		return 0, err
	}

	delta := globalstats.NewDelta()
	delta.RewardsFunded.Set(amount)
	if err := s.globalStatsService.Apply(delta); err != nil {
		return 0, err
	}
	if err := s.rewardAsset.Debit(funder, amount); err != nil {
		return 0, reverts.ErrTransferFailed.Wrap(err)
	}

	s.emit(&Event{
		Kind:    EventFunded,
		Account: funder,
		Amount:  new(big.Int).Set(amount),
		Period:  period,
	})
	return period, nil
}

// Claim pays out everything accrued and not yet claimed.
func (s *Staker) Claim(addr types.Address) (*big.Int, error) {
	logger.Debug("claiming rewards", "account", addr)

	claimed, err := s.claim(addr)
	if err != nil {
		logger.Info("claim rewards failed", "account", addr, "error", err)
		return nil, err
	}

	logger.Info("claimed rewards", "account", addr, "amount", claimed)
	return claimed, nil
}

func (s *Staker) claim(addr types.Address) (*big.Int, error) {
	acc, err := s.accountService.Get(addr)
	if err != nil {
		return nil, err
	}
	if err := s.accrue(addr, acc); err != nil {
		return nil, err
	}

	claimable := acc.Claimable()
	if claimable.Sign() <= 0 {
		return nil, reverts.ErrZeroHarvestAmount
	}
	balance, err := s.globalStatsService.RewardBalance()
	if err != nil {
		return nil, err
	}
	if balance.Cmp(claimable) < 0 {
		return nil, reverts.ErrInsufficientRewardBalance.Withf("claimable %v, balance %v", claimable, balance)
	}

	acc.HarvestClaimed.Add(acc.HarvestClaimed, claimable)
	if err := s.accountService.Set(addr, acc); err != nil {
		return nil, err
	}
	delta := globalstats.NewDelta()
	delta.RewardsClaimed.Set(claimable)
	if err := s.globalStatsService.Apply(delta); err != nil {
		return nil, err
	}
	if err := s.rewardAsset.Credit(addr, claimable); err != nil {
		return nil, reverts.ErrTransferFailed.Wrap(err)
	}

	s.emit(&Event{
		Kind:    EventClaimed,
		Account: addr,
		Amount:  new(big.Int).Set(claimable),
	})
	return claimable, nil
}

// PendingHarvest returns what Claim would pay out now, without writing
// anything.
func (s *Staker) PendingHarvest(addr types.Address) (*big.Int, error) {
	acc, err := s.accountService.Get(addr)
	if err != nil {
		return nil, err
	}
	pending := acc.Claimable()
	if !acc.Initialized {
		return pending, nil
	}
	boundary, err := s.rewardsService.FundedBoundary()
	if err != nil {
		return nil, err
	}
	reward, err := s.accrued(addr, acc, boundary)
	if err != nil {
		return nil, err
	}
	return pending.Add(pending, reward), nil
}

// accrue folds the rewards of every funded period since the last checkpoint
// into the account and moves the checkpoint to the funded boundary. A fresh
// account starts at the boundary and earns nothing from earlier periods.
func (s *Staker) accrue(addr types.Address, acc *account.Account) error {
	boundary, err := s.rewardsService.FundedBoundary()
	if err != nil {
		return err
	}
	if !acc.Initialized {
		acc.Initialized = true
		acc.LastCheckpointedPeriod = boundary
		return nil
	}
	if acc.LastCheckpointedPeriod >= boundary {
		return nil
	}

	reward, err := s.accrued(addr, acc, boundary)
	if err != nil {
		return err
	}
	acc.HarvestAccrued.Add(acc.HarvestAccrued, reward)
	acc.LastCheckpointedPeriod = boundary
	return nil
}

// accrued sums the account's reward over funded periods from its checkpoint
// up to boundary. Periods past its newest share are skipped.
func (s *Staker) accrued(addr types.Address, acc *account.Account, boundary uint64) (*big.Int, error) {
	sum := new(big.Int)
	end := min(boundary, acc.LastSharePeriod+1)

	for p := acc.LastCheckpointedPeriod; p < end; p++ {
		rec, err := s.rewardsService.Get(p)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		for t, bps := range rec.TierShareBps {
			if bps == 0 {
				continue
			}
			share, err := s.ledgerService.Share(p, uint8(t), addr)
			if err != nil {
				return nil, err
			}
			if share.Sign() == 0 {
				continue
			}
			total, err := s.ledgerService.Total(p, uint8(t))
			if err != nil {
				return nil, err
			}
			if total.Sign() == 0 {
				continue
			}
			// amount * bps * share / (total * 10000)
			r := new(big.Int).Mul(rec.Amount, big.NewInt(int64(bps)))
			r.Mul(r, share)
			r.Quo(r, new(big.Int).Mul(total, bigBps))
			sum.Add(sum, r)
		}
	}
	return sum, nil
}
