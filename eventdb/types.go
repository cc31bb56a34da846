// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/vechain/tierstake/builtin/staker"
	"github.com/vechain/tierstake/types"
)

type RangeType string

const (
	Time   RangeType = "time"
	Period RangeType = "period"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	Account *types.Address `json:"account"`
	Kinds   []string       `json:"kinds"`
	Range   *Range         `json:"range"`
	Options *Options       `json:"options"`
	Order   Order          `json:"order"` // default asc
}

// Event is a pool event as stored.
type Event struct {
	Seq      uint64
	Kind     string
	Account  types.Address
	Amount   *big.Int
	Returned *big.Int
	Tier     uint8
	Period   uint64
	Duration uint64
	UnlockAt uint64
	Time     uint64
}

// NewEvent converts a staker event that happened at time.
func NewEvent(ev *staker.Event, time uint64) *Event {
	return &Event{
		Kind:     ev.Kind,
		Account:  ev.Account,
		Amount:   ev.Amount,
		Returned: ev.Returned,
		Tier:     ev.Tier,
		Period:   ev.Period,
		Duration: ev.Duration,
		UnlockAt: ev.UnlockAt,
		Time:     time,
	}
}
