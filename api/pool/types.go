// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

type Status struct {
	Now            uint64                `json:"now"`
	CurrentPeriod  uint64                `json:"currentPeriod"`
	FundedBoundary uint64                `json:"fundedBoundary"`
	Paused         bool                  `json:"paused"`
	Owner          types.Address         `json:"owner"`
	TotalStaked    *math.HexOrDecimal256 `json:"totalStaked"`
	StakerCount    *math.HexOrDecimal256 `json:"stakerCount"`
	RewardBalance  *math.HexOrDecimal256 `json:"rewardBalance"`
	CollectedFees  *math.HexOrDecimal256 `json:"collectedFees"`
}

func convertStatus(s *pool.Status) *Status {
	return &Status{
		Now:            s.Now,
		CurrentPeriod:  s.CurrentPeriod,
		FundedBoundary: s.FundedBoundary,
		Paused:         s.Paused,
		Owner:          s.Owner,
		TotalStaked:    (*math.HexOrDecimal256)(s.TotalStaked),
		StakerCount:    (*math.HexOrDecimal256)(s.StakerCount),
		RewardBalance:  (*math.HexOrDecimal256)(s.RewardBalance),
		CollectedFees:  (*math.HexOrDecimal256)(s.CollectedFees),
	}
}

type Clock struct {
	Time   uint64 `json:"time"`
	Period uint64 `json:"period"`
	Start  uint64 `json:"start"`
	End    uint64 `json:"end"`
}

type Tier struct {
	Duration uint64 `json:"duration"`
	Tier     uint8  `json:"tier"`
}

type Reward struct {
	FundedAt     uint64                `json:"fundedAt"`
	Amount       *math.HexOrDecimal256 `json:"amount"`
	TierShareBps []uint16              `json:"tierShareBps"`
}

type Period struct {
	Index      uint64                  `json:"index"`
	Start      uint64                  `json:"start"`
	End        uint64                  `json:"end"`
	Funded     bool                    `json:"funded"`
	Reward     *Reward                 `json:"reward"`
	TierTotals []*math.HexOrDecimal256 `json:"tierTotals"`
}

func convertPeriod(p *pool.PeriodView) *Period {
	period := &Period{
		Index:      p.Index,
		Start:      p.Start,
		End:        p.End,
		Funded:     p.Funded,
		TierTotals: convertAmounts(p.TierTotals),
	}
	if p.Reward != nil {
		period.Reward = &Reward{
			FundedAt:     p.Reward.FundedAt,
			Amount:       (*math.HexOrDecimal256)(p.Reward.Amount),
			TierShareBps: p.Reward.TierShareBps,
		}
	}
	return period
}

func convertAmounts(values []*big.Int) []*math.HexOrDecimal256 {
	out := make([]*math.HexOrDecimal256, len(values))
	for i, v := range values {
		out[i] = (*math.HexOrDecimal256)(v)
	}
	return out
}

type PauseRequest struct {
	Caller types.Address `json:"caller"`
	Paused bool          `json:"paused"`
}

type OwnerRequest struct {
	Caller types.Address `json:"caller"`
	Owner  types.Address `json:"owner"`
}

type ConfigRequest struct {
	Caller types.Address `json:"caller"`
	config.Update
}
