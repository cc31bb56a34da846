// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/types"
)

var (
	slotTotalStaked   = types.BytesToBytes32([]byte("total-staked"))
	slotStakerCount   = types.BytesToBytes32([]byte("staker-count"))
	slotRewardBalance = types.BytesToBytes32([]byte("reward-balance"))
	slotCollectedFees = types.BytesToBytes32([]byte("collected-fees"))
)

// Stats is a readout of the pool-wide counters.
type Stats struct {
	TotalStaked   *big.Int
	StakerCount   *big.Int
	RewardBalance *big.Int // funded minus claimed
	CollectedFees *big.Int
}

// Service manages contract-wide staking totals.
type Service struct {
	totalStaked   *solidity.Uint256
	stakerCount   *solidity.Uint256
	rewardBalance *solidity.Uint256
	collectedFees *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		totalStaked:   solidity.NewUint256(sctx, slotTotalStaked),
		stakerCount:   solidity.NewUint256(sctx, slotStakerCount),
		rewardBalance: solidity.NewUint256(sctx, slotRewardBalance),
		collectedFees: solidity.NewUint256(sctx, slotCollectedFees),
	}
}

// RewardBalance returns the reward still held for stakers.
func (s *Service) RewardBalance() (*big.Int, error) {
	v, err := s.rewardBalance.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward balance")
	}
	return v, nil
}

// Get returns all counters.
func (s *Service) Get() (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalStaked, err = s.totalStaked.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get total staked")
	}
	if stats.StakerCount, err = s.stakerCount.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get staker count")
	}
	if stats.RewardBalance, err = s.rewardBalance.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get reward balance")
	}
	if stats.CollectedFees, err = s.collectedFees.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get collected fees")
	}
	return &stats, nil
}

// Apply adds the delta to the counters. Decreases are applied after
// increases so a delta never underflows midway.
func (s *Service) Apply(d *Delta) error {
	if err := s.totalStaked.Add(d.StakeIncrease); err != nil {
		return errors.Wrap(err, "failed to update total staked")
	}
	if err := s.totalStaked.Sub(d.StakeDecrease); err != nil {
		return errors.Wrap(err, "failed to update total staked")
	}
	if err := s.stakerCount.Add(new(big.Int).SetUint64(d.StakersJoined)); err != nil {
		return errors.Wrap(err, "failed to update staker count")
	}
	if err := s.stakerCount.Sub(new(big.Int).SetUint64(d.StakersLeft)); err != nil {
		return errors.Wrap(err, "failed to update staker count")
	}
	if err := s.rewardBalance.Add(d.RewardsFunded); err != nil {
		return errors.Wrap(err, "failed to update reward balance")
	}
	if err := s.rewardBalance.Sub(d.RewardsClaimed); err != nil {
		return errors.Wrap(err, "failed to update reward balance")
	}
	if err := s.collectedFees.Add(d.FeesCollected); err != nil {
		return errors.Wrap(err, "failed to update collected fees")
	}
	return nil
}
