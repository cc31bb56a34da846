// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/types"
)

// FilteredEvent is a pool event as served.
type FilteredEvent struct {
	Seq      uint64                `json:"seq"`
	Kind     string                `json:"kind"`
	Account  types.Address         `json:"account"`
	Amount   *math.HexOrDecimal256 `json:"amount,omitempty"`
	Returned *math.HexOrDecimal256 `json:"returned,omitempty"`
	Tier     uint8                 `json:"tier"`
	Period   uint64                `json:"period"`
	Duration uint64                `json:"duration"`
	UnlockAt uint64                `json:"unlockAt"`
	Time     uint64                `json:"time"`
}

// ConvertEvent renders a stored event.
func ConvertEvent(e *eventdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Seq:      e.Seq,
		Kind:     e.Kind,
		Account:  e.Account,
		Amount:   (*math.HexOrDecimal256)(e.Amount),
		Returned: (*math.HexOrDecimal256)(e.Returned),
		Tier:     e.Tier,
		Period:   e.Period,
		Duration: e.Duration,
		UnlockAt: e.UnlockAt,
		Time:     e.Time,
	}
}
