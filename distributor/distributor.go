// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package distributor funds the pool's reward periods on a cron schedule.
package distributor

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/metrics"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

var (
	logger = log.WithContext("pkg", "distributor")

	metricRuns = metrics.LazyLoadCounterVec("distributor_runs_count", []string{"outcome"})
)

// Pool is the part of the engine the distributor drives.
type Pool interface {
	Status() (*pool.Status, error)
	Config() (*config.PoolConfig, error)
	Fund(caller types.Address, amount *big.Int) error
}

// Distributor funds the current reward period with a fixed amount when its
// schedule fires inside the period's closing window. A funded period accepts
// no new stakes.
type Distributor struct {
	pool   Pool
	funder types.Address
	amount *big.Int
	window time.Duration
	cron   *cron.Cron
	mu     sync.Mutex
}

// New creates a distributor. spec is a cron expression with an optional
// leading seconds field, or a descriptor such as "@hourly" or "@every 1h".
// window is how long before a period ends funding may happen; zero means a
// seventh of the period length. The schedule must fire at least once per
// window.
func New(p Pool, spec string, funder types.Address, amount *big.Int, window time.Duration) (*Distributor, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("fund amount must be positive")
	}
	if window < 0 {
		return nil, errors.New("fund window must not be negative")
	}
	d := &Distributor{
		pool:   p,
		funder: funder,
		amount: new(big.Int).Set(amount),
		window: window,
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithLogger(cronLogger{}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		),
	}
	if _, err := d.cron.AddFunc(spec, d.run); err != nil {
		return nil, errors.Wrapf(err, "parse fund schedule %q", spec)
	}
	return d, nil
}

// Start runs the schedule in the background.
func (d *Distributor) Start() {
	d.cron.Start()
	logger.Info("distributor started", "funder", d.funder, "amount", d.amount)
}

// Stop halts the schedule and waits for a running job to finish.
func (d *Distributor) Stop() {
	<-d.cron.Stop().Done()
	logger.Info("distributor stopped")
}

func (d *Distributor) run() {
	outcome := "skipped"
	funded, err := d.RunOnce()
	switch {
	case err != nil:
		outcome = "failed"
		logger.Warn("scheduled funding failed", "error", err)
	case funded:
		outcome = "funded"
	}
	metricRuns().AddWithLabel(1, map[string]string{"outcome": outcome})
}

// RunOnce funds the current period if it is closing and not yet funded.
func (d *Distributor) RunOnce() (funded bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, err := d.pool.Status()
	if err != nil {
		return false, err
	}
	if status.FundedBoundary > status.CurrentPeriod {
		logger.Debug("period already funded", "period", status.CurrentPeriod)
		return false, nil
	}
	cfg, err := d.pool.Config()
	if err != nil {
		return false, err
	}
	end := cfg.Clock().End(status.CurrentPeriod)
	if window := d.windowOf(cfg); status.Now+window < end {
		logger.Debug("period not closing yet", "period", status.CurrentPeriod, "opens", end-window)
		return false, nil
	}
	if err := d.pool.Fund(d.funder, d.amount); err != nil {
		return false, err
	}
	logger.Info("funded period", "period", status.CurrentPeriod, "amount", d.amount)
	return true, nil
}

func (d *Distributor) windowOf(cfg *config.PoolConfig) uint64 {
	if w := uint64(d.window / time.Second); w > 0 {
		return w
	}
	return max(cfg.RewardPeriodLength/7, 1)
}

// cronLogger routes cron's own logging to the package logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error(msg, append(keysAndValues, "error", err)...)
}
