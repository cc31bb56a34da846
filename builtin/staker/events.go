// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/tierstake/types"
)

const (
	EventStaked        = "Staked"
	EventUnstaked      = "Unstaked"
	EventRestaked      = "Restaked"
	EventFunded        = "Funded"
	EventClaimed       = "Claimed"
	EventConfigUpdated = "ConfigUpdated"
)

// Event describes a completed pool operation. Fields not relevant to a kind
// are left zero.
type Event struct {
	Kind     string
	Account  types.Address
	Amount   *big.Int // staked, unstaked, restaked, funded or claimed amount
	Returned *big.Int // credited back to the account by unstake and restake
	Tier     uint8
	Period   uint64 // first share period of a stake, or the funded period
	Duration uint64
	UnlockAt uint64
}
