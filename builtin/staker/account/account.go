// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"math/big"
)

// Account is the per staker record.
type Account struct {
	TotalStaked            *big.Int
	UnlockAt               uint64
	CurrentTier            uint8
	LastCheckpointedPeriod uint64 // rewards before this period are folded into HarvestAccrued
	LastSharePeriod        uint64 // newest period holding shares of this account
	HarvestAccrued         *big.Int
	HarvestClaimed         *big.Int
	Initialized            bool
}

// newAccount returns an empty, uninitialised record.
func newAccount() *Account {
	return &Account{
		TotalStaked:    new(big.Int),
		HarvestAccrued: new(big.Int),
		HarvestClaimed: new(big.Int),
	}
}

// IsLocked returns whether the account holds stake that is still locked at now.
func (a *Account) IsLocked(now uint64) bool {
	return a.TotalStaked.Sign() > 0 && now < a.UnlockAt
}

// Claimable returns the accrued but unclaimed reward.
func (a *Account) Claimable() *big.Int {
	return new(big.Int).Sub(a.HarvestAccrued, a.HarvestClaimed)
}

// Copy returns a deep copy.
func (a *Account) Copy() *Account {
	cpy := *a
	cpy.TotalStaked = new(big.Int).Set(a.TotalStaked)
	cpy.HarvestAccrued = new(big.Int).Set(a.HarvestAccrued)
	cpy.HarvestClaimed = new(big.Int).Set(a.HarvestClaimed)
	return &cpy
}

func (a *Account) normalize() {
	if a.TotalStaked == nil {
		a.TotalStaked = new(big.Int)
	}
	if a.HarvestAccrued == nil {
		a.HarvestAccrued = new(big.Int)
	}
	if a.HarvestClaimed == nil {
		a.HarvestClaimed = new(big.Int)
	}
}
