// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/tierstake/pool"
)

type Account struct {
	TotalStaked            *math.HexOrDecimal256 `json:"totalStaked"`
	UnlockAt               uint64                `json:"unlockAt"`
	Locked                 bool                  `json:"locked"`
	CurrentTier            uint8                 `json:"currentTier"`
	LastCheckpointedPeriod uint64                `json:"lastCheckpointedPeriod"`
	LastSharePeriod        uint64                `json:"lastSharePeriod"`
	HarvestAccrued         *math.HexOrDecimal256 `json:"harvestAccrued"`
	HarvestClaimed         *math.HexOrDecimal256 `json:"harvestClaimed"`
	Pending                *math.HexOrDecimal256 `json:"pending"`
	Initialized            bool                  `json:"initialized"`
}

func convertAccount(v *pool.AccountView) *Account {
	return &Account{
		TotalStaked:            (*math.HexOrDecimal256)(v.TotalStaked),
		UnlockAt:               v.UnlockAt,
		Locked:                 v.IsLocked,
		CurrentTier:            v.CurrentTier,
		LastCheckpointedPeriod: v.LastCheckpointedPeriod,
		LastSharePeriod:        v.LastSharePeriod,
		HarvestAccrued:         (*math.HexOrDecimal256)(v.HarvestAccrued),
		HarvestClaimed:         (*math.HexOrDecimal256)(v.HarvestClaimed),
		Pending:                (*math.HexOrDecimal256)(v.Pending),
		Initialized:            v.Initialized,
	}
}

type StakeRequest struct {
	Duration uint64                `json:"duration"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
}

type UnstakeRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// RestakeRequest rolls the whole stake over for Duration*Count seconds, or
// only Portion of it when set.
type RestakeRequest struct {
	Duration uint64                `json:"duration"`
	Count    uint64                `json:"count"`
	Portion  *math.HexOrDecimal256 `json:"portion,omitempty"`
}

// Receipt is the answer to a pool operation: the amount it staked, returned,
// restaked or claimed, and the account afterwards.
type Receipt struct {
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Account *Account              `json:"account"`
}
