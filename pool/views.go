// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/staker/account"
	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/builtin/staker/globalstats"
	"github.com/vechain/tierstake/builtin/staker/rewards"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/types"
)

// Status is a readout of the pool as a whole.
type Status struct {
	*globalstats.Stats
	Now            uint64
	CurrentPeriod  uint64
	FundedBoundary uint64
	Paused         bool
	Owner          types.Address
}

// AccountView is an account record plus what it could claim now.
type AccountView struct {
	*account.Account
	Pending  *big.Int
	IsLocked bool
}

// PeriodView describes one reward period.
type PeriodView struct {
	Index      uint64
	Start      uint64
	End        uint64
	Funded     bool // frozen: below the funded boundary
	Reward     *rewards.Record
	TierTotals []*big.Int
}

// ClockView places a timestamp on the period grid.
type ClockView struct {
	Time   uint64
	Period uint64
	Start  uint64
	End    uint64
}

func (e *Engine) Config() (cfg *config.PoolConfig, err error) {
	err = e.view(func(tx *txn) error {
		cfg, err = tx.staker.Config()
		return err
	})
	return
}

func (e *Engine) Status() (status *Status, err error) {
	err = e.view(func(tx *txn) error {
		stats, err := tx.staker.Stats()
		if err != nil {
			return err
		}
		c, err := tx.staker.Clock()
		if err != nil {
			return err
		}
		boundary, err := tx.staker.FundedBoundary()
		if err != nil {
			return err
		}
		paused, err := tx.auth.Paused()
		if err != nil {
			return err
		}
		owner, err := tx.auth.Owner()
		if err != nil {
			return err
		}
		status = &Status{
			Stats:          stats,
			Now:            tx.now,
			CurrentPeriod:  c.IndexOf(tx.now),
			FundedBoundary: boundary,
			Paused:         paused,
			Owner:          owner,
		}
		return nil
	})
	return
}

// ClockAt places t on the period grid.
func (e *Engine) ClockAt(t uint64) (view *ClockView, err error) {
	err = e.view(func(tx *txn) error {
		c, err := tx.staker.Clock()
		if err != nil {
			return err
		}
		i := c.IndexOf(t)
		view = &ClockView{Time: t, Period: i, Start: c.Start(i), End: c.End(i)}
		return nil
	})
	return
}

func (e *Engine) TierFor(duration uint64) (tier uint8, err error) {
	err = e.view(func(tx *txn) error {
		tier, err = tx.staker.TierFor(duration)
		return err
	})
	return
}

func (e *Engine) Account(addr types.Address) (view *AccountView, err error) {
	err = e.view(func(tx *txn) error {
		acc, err := tx.staker.Account(addr)
		if err != nil {
			return err
		}
		pending, err := tx.staker.PendingHarvest(addr)
		if err != nil {
			return err
		}
		view = &AccountView{Account: acc, Pending: pending, IsLocked: acc.IsLocked(tx.now)}
		return nil
	})
	return
}

func (e *Engine) Shares(period uint64, addr types.Address) (shares []*big.Int, err error) {
	err = e.view(func(tx *txn) error {
		shares, err = tx.staker.AccountShares(period, addr)
		return err
	})
	return
}

func (e *Engine) Period(index uint64) (view *PeriodView, err error) {
	err = e.view(func(tx *txn) error {
		c, err := tx.staker.Clock()
		if err != nil {
			return err
		}
		boundary, err := tx.staker.FundedBoundary()
		if err != nil {
			return err
		}
		rec, err := tx.staker.RewardRecord(index)
		if err != nil {
			return err
		}
		totals, err := tx.staker.TierTotals(index)
		if err != nil {
			return err
		}
		view = &PeriodView{
			Index:      index,
			Start:      c.Start(index),
			End:        c.End(index),
			Funded:     index < boundary,
			Reward:     rec,
			TierTotals: totals,
		}
		return nil
	})
	return
}

// Balance returns the holdings of addr in asset a.
func (e *Engine) Balance(a Asset, addr types.Address) (bal *big.Int, err error) {
	err = e.view(func(tx *txn) error {
		token, err := tx.token(a)
		if err != nil {
			return err
		}
		bal, err = token.BalanceOf(addr)
		return err
	})
	return
}

// ErrNoEventHistory is returned by Events when the engine keeps no history.
var ErrNoEventHistory = errors.New("event history is disabled")

// Events queries the event history.
func (e *Engine) Events(ctx context.Context, filter *eventdb.Filter) ([]*eventdb.Event, error) {
	if e.events == nil {
		return nil, ErrNoEventHistory
	}
	return e.events.Filter(ctx, filter)
}
