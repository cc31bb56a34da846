// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/tierstake/health"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/pool"
)

var logger = log.WithContext("pkg", "node")

// Pool is the engine as seen by housekeeping.
type Pool interface {
	Status() (*pool.Status, error)
	CacheStats() (hit, miss int64)
}

type Options struct {
	TickInterval      time.Duration
	ClockSyncInterval time.Duration
	NTPServer         string
	MaxClockOffset    time.Duration
}

// Node runs the housekeeping of a pool service: it follows period
// rollovers, reports liveness and watches the local clock.
type Node struct {
	pool     Pool
	health   *health.Health
	opts     Options
	queryNTP func(server string) (time.Duration, error)

	period  uint64
	started bool
}

func New(p Pool, h *health.Health, opts Options) *Node {
	if opts.TickInterval == 0 {
		opts.TickInterval = 10 * time.Second
	}
	if opts.ClockSyncInterval == 0 {
		opts.ClockSyncInterval = 10 * time.Minute
	}
	if opts.NTPServer == "" {
		opts.NTPServer = "pool.ntp.org"
	}
	return &Node{
		pool:   p,
		health: h,
		opts:   opts,
		queryNTP: func(server string) (time.Duration, error) {
			resp, err := ntp.Query(server)
			if err != nil {
				return 0, err
			}
			return resp.ClockOffset, nil
		},
	}
}

// Run blocks until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	var goes errgroup.Group
	goes.Go(func() error {
		n.houseKeeping(ctx)
		return nil
	})
	goes.Go(func() error {
		n.clockSync(ctx)
		return nil
	})
	return goes.Wait()
}

func (n *Node) houseKeeping(ctx context.Context) {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	ticker := time.NewTicker(n.opts.TickInterval)
	defer ticker.Stop()

	n.housekeep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.housekeep()
		}
	}
}

func (n *Node) clockSync(ctx context.Context) {
	ticker := time.NewTicker(n.opts.ClockSyncInterval)
	defer ticker.Stop()

	n.checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.checkClockOffset()
		}
	}
}

func (n *Node) housekeep() {
	status, err := n.pool.Status()
	if err != nil {
		logger.Warn("failed to read pool status", "err", err)
		return
	}

	if !n.started || status.CurrentPeriod != n.period {
		funded := status.FundedBoundary > status.CurrentPeriod
		logger.Info("entered reward period",
			"period", status.CurrentPeriod,
			"funded", funded,
			"staked", status.TotalStaked,
			"stakers", status.StakerCount,
			"balance", status.RewardBalance,
		)
		if !funded && status.CurrentPeriod > 0 && !status.Paused {
			logger.Warn("current period is not funded", "period", status.CurrentPeriod)
		}
		n.period = status.CurrentPeriod
		n.started = true
	}

	metricCurrentPeriod().Set(int64(status.CurrentPeriod))
	hit, miss := n.pool.CacheStats()
	metricCacheStats().SetWithLabel(hit, map[string]string{"type": "hit"})
	metricCacheStats().SetWithLabel(miss, map[string]string{"type": "miss"})

	n.health.Tick(status.CurrentPeriod)
}

func (n *Node) checkClockOffset() {
	offset, err := n.queryNTP(n.opts.NTPServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	n.health.ClockOffset(offset)
	if offset > n.opts.MaxClockOffset || -offset > n.opts.MaxClockOffset {
		logger.Warn("clock offset detected", "offset", offset)
	}
}
