// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/staker/account"
	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/builtin/staker/globalstats"
	"github.com/vechain/tierstake/builtin/staker/ledger"
	"github.com/vechain/tierstake/types"
)

// Stake locks amount for duration seconds starting at now. Additional stakes
// must resolve to the tier the account is currently locked in.
func (s *Staker) Stake(addr types.Address, duration uint64, amount *big.Int, now uint64) error {
	logger.Debug("adding stake", "account", addr, "duration", duration, "amount", amount)

	if err := s.stake(addr, duration, amount, now); err != nil {
		logger.Info("add stake failed", "account", addr, "error", err)
		return err
	}

	logger.Info("added stake", "account", addr, "amount", amount)
	return nil
}

func (s *Staker) stake(addr types.Address, duration uint64, amount *big.Int, now uint64) error {
	if duration == 0 {
		return reverts.ErrInvalidInput.Withf("duration must be positive")
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidInput.Withf("amount must be positive")
	}
	if now+duration < now {
		return reverts.ErrInvalidInput.Withf("unlock time overflows")
	}

	cfg, err := s.configService.MustGet()
	if err != nil {
		return err
	}
	if err := cfg.CheckLock(now, duration); err != nil {
		return err
	}
	acc, err := s.accountService.Get(addr)
	if err != nil {
		return err
	}

	tier := cfg.TierFor(duration)
	if acc.IsLocked(now) && acc.CurrentTier != tier {
		return reverts.ErrTierLockConflict.Withf("locked in tier %d until %d, requested tier %d", acc.CurrentTier, acc.UnlockAt, tier)
	}
	if err := s.accrue(addr, acc); err != nil {
		return err
	}

	before := new(big.Int).Set(acc.TotalStaked)
	acc.CurrentTier = tier
	acc.TotalStaked.Add(acc.TotalStaked, amount)
	acc.UnlockAt = now + duration

	first, err := s.allocate(addr, acc, cfg, amount, now, duration)
	if err != nil {
		return err
	}
	if err := s.accountService.Set(addr, acc); err != nil {
		return err
	}
	if err := s.globalStatsService.Apply(globalstats.NewDelta().TrackStake(before, acc.TotalStaked)); err != nil {
		return err
	}
	if err := s.stakeAsset.Debit(addr, amount); err != nil {
		return reverts.ErrTransferFailed.Wrap(err)
	}

	s.emit(&Event{
		Kind:     EventStaked,
		Account:  addr,
		Amount:   new(big.Int).Set(amount),
		Tier:     tier,
		Period:   first,
		Duration: duration,
		UnlockAt: acc.UnlockAt,
	})
	return nil
}

// Unstake withdraws amount from the account and returns what is credited
// back. Before the unlock time the force exit fee is deducted.
func (s *Staker) Unstake(addr types.Address, amount *big.Int, now uint64) (*big.Int, error) {
	logger.Debug("removing stake", "account", addr, "amount", amount)

	returned, err := s.unstake(addr, amount, now)
	if err != nil {
		logger.Info("remove stake failed", "account", addr, "error", err)
		return nil, err
	}

	logger.Info("removed stake", "account", addr, "amount", amount, "returned", returned)
	return returned, nil
}

func (s *Staker) unstake(addr types.Address, amount *big.Int, now uint64) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.ErrInvalidUnstakeAmount.Withf("amount must be positive")
	}

	cfg, err := s.configService.MustGet()
	if err != nil {
		return nil, err
	}
	acc, err := s.accountService.Get(addr)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(acc.TotalStaked) > 0 {
		return nil, reverts.ErrInvalidUnstakeAmount.Withf("amount %v exceeds stake %v", amount, acc.TotalStaked)
	}
	if err := s.accrue(addr, acc); err != nil {
		return nil, err
	}

	before := new(big.Int).Set(acc.TotalStaked)
	returned, fee, err := s.withdraw(addr, acc, cfg, amount, now)
	if err != nil {
		return nil, err
	}
	if err := s.accountService.Set(addr, acc); err != nil {
		return nil, err
	}
	delta := globalstats.NewDelta().TrackStake(before, acc.TotalStaked)
	delta.FeesCollected.Set(fee)
	if err := s.globalStatsService.Apply(delta); err != nil {
		return nil, err
	}
	if returned.Sign() > 0 {
		if err := s.stakeAsset.Credit(addr, returned); err != nil {
			return nil, reverts.ErrTransferFailed.Wrap(err)
		}
	}

	s.emit(&Event{
		Kind:     EventUnstaked,
		Account:  addr,
		Amount:   new(big.Int).Set(amount),
		Returned: new(big.Int).Set(returned),
		Tier:     acc.CurrentTier,
		UnlockAt: acc.UnlockAt,
	})
	return returned, nil
}

// Restake withdraws the whole stake and locks what is returned again for
// duration*count seconds. It returns the restaked amount.
func (s *Staker) Restake(addr types.Address, duration, count uint64, now uint64) (*big.Int, error) {
	logger.Debug("restaking", "account", addr, "duration", duration, "count", count)

	restaked, _, err := s.restake(addr, duration, count, nil, now)
	if err != nil {
		logger.Info("restake failed", "account", addr, "error", err)
		return nil, err
	}

	logger.Info("restaked", "account", addr, "amount", restaked)
	return restaked, nil
}

// RestakePortion is Restake locking only portion of the returned amount. The
// remainder is credited back and returned.
func (s *Staker) RestakePortion(addr types.Address, duration, count uint64, portion *big.Int, now uint64) (*big.Int, error) {
	logger.Debug("restaking portion", "account", addr, "duration", duration, "count", count, "portion", portion)

	if portion == nil {
		return nil, reverts.ErrInvalidInput.Withf("portion must be positive")
	}
	restaked, remainder, err := s.restake(addr, duration, count, portion, now)
	if err != nil {
		logger.Info("restake portion failed", "account", addr, "error", err)
		return nil, err
	}

	logger.Info("restaked portion", "account", addr, "amount", restaked, "remainder", remainder)
	return remainder, nil
}

// restake locks portion, or everything returned when portion is nil.
func (s *Staker) restake(addr types.Address, duration, count uint64, portion *big.Int, now uint64) (*big.Int, *big.Int, error) {
	if duration == 0 || count == 0 {
		return nil, nil, reverts.ErrInvalidInput.Withf("duration and count must be positive")
	}
	lockDuration := duration * count
	if lockDuration/count != duration {
		return nil, nil, reverts.ErrInvalidInput.Withf("lock duration overflows")
	}

	cfg, err := s.configService.MustGet()
	if err != nil {
		return nil, nil, err
	}
	acc, err := s.accountService.Get(addr)
	if err != nil {
		return nil, nil, err
	}
	if acc.TotalStaked.Sign() == 0 {
		return nil, nil, reverts.ErrInvalidUnstakeAmount.Withf("nothing staked")
	}

	// a tier change only takes effect from the next period
	tier := cfg.TierFor(lockDuration)
	stakeAt := now
	if tier != acc.CurrentTier {
		c := cfg.Clock()
		stakeAt = c.Start(c.IndexOf(now) + 1)
	}
	if stakeAt+lockDuration < stakeAt {
		return nil, nil, reverts.ErrInvalidInput.Withf("unlock time overflows")
	}
	if err := cfg.CheckLock(stakeAt, lockDuration); err != nil {
		return nil, nil, err
	}

	if err := s.accrue(addr, acc); err != nil {
		return nil, nil, err
	}

	before := new(big.Int).Set(acc.TotalStaked)

	returned, fee, err := s.withdraw(addr, acc, cfg, before, now)
	if err != nil {
		return nil, nil, err
	}
	restaked, remainder := returned, new(big.Int)
	if portion != nil {
		if portion.Sign() <= 0 || portion.Cmp(returned) > 0 {
			return nil, nil, reverts.ErrInvalidInput.Withf("portion %v outside (0, %v]", portion, returned)
		}
		restaked = new(big.Int).Set(portion)
		remainder.Sub(returned, portion)
	}
	if restaked.Sign() == 0 {
		return nil, nil, reverts.ErrInvalidInput.Withf("nothing left to restake")
	}

	acc.CurrentTier = tier
	acc.TotalStaked.Add(acc.TotalStaked, restaked)
	acc.UnlockAt = stakeAt + lockDuration

	first, err := s.allocate(addr, acc, cfg, restaked, stakeAt, lockDuration)
	if err != nil {
		return nil, nil, err
	}
	if err := s.accountService.Set(addr, acc); err != nil {
		return nil, nil, err
	}
	delta := globalstats.NewDelta().TrackStake(before, acc.TotalStaked)
	delta.FeesCollected.Set(fee)
	if err := s.globalStatsService.Apply(delta); err != nil {
		return nil, nil, err
	}
	if remainder.Sign() > 0 {
		if err := s.stakeAsset.Credit(addr, remainder); err != nil {
			return nil, nil, reverts.ErrTransferFailed.Wrap(err)
		}
	}

	s.emit(&Event{
		Kind:     EventRestaked,
		Account:  addr,
		Amount:   new(big.Int).Set(restaked),
		Returned: new(big.Int).Set(remainder),
		Tier:     tier,
		Period:   first,
		Duration: lockDuration,
		UnlockAt: acc.UnlockAt,
	})
	return restaked, remainder, nil
}

// allocate credits the pro-rated shares of amount locked over
// [stakeAt, stakeAt+duration) in the account's current tier and returns the
// first period touched.
func (s *Staker) allocate(addr types.Address, acc *account.Account, cfg *config.PoolConfig, amount *big.Int, stakeAt, duration uint64) (uint64, error) {
	c := cfg.Clock()
	first := c.IndexOf(stakeAt)

	boundary, err := s.rewardsService.FundedBoundary()
	if err != nil {
		return 0, err
	}
	if first < boundary {
		return 0, reverts.ErrPastPeriodStake.Withf("period %d already funded, boundary %d", first, boundary)
	}

	for _, alloc := range ledger.Prorate(c, amount, stakeAt, duration) {
		if err := s.ledgerService.Add(alloc.Period, acc.CurrentTier, addr, alloc.Units); err != nil {
			return 0, err
		}
		if alloc.Period > acc.LastSharePeriod {
			acc.LastSharePeriod = alloc.Period
		}
	}
	return first, nil
}

// withdraw releases amount from the account's shares, newest period first,
// and deducts it from the stake. It returns the amount owed back and the fee
// kept by the pool.
func (s *Staker) withdraw(addr types.Address, acc *account.Account, cfg *config.PoolConfig, amount *big.Int, now uint64) (*big.Int, *big.Int, error) {
	returned := new(big.Int).Set(amount)
	if now < acc.UnlockAt {
		returned.Mul(returned, big.NewInt(int64(config.BpsDenominator-cfg.ForceExitFeeBps)))
		returned.Quo(returned, bigBps)
	}

	remaining, err := s.ledgerService.Release(addr, acc.CurrentTier, acc.LastSharePeriod, ledger.Units(amount))
	if err != nil {
		return nil, nil, err
	}
	if remaining.Sign() > 0 {
		logger.Debug("shares left in funded periods", "account", addr, "units", remaining)
	}

	amount = new(big.Int).Set(amount)
	acc.TotalStaked.Sub(acc.TotalStaked, amount)
	return returned, amount.Sub(amount, returned), nil
}
