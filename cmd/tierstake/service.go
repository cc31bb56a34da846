// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tierstake/api"
	"github.com/vechain/tierstake/cmd/tierstake/node"
	"github.com/vechain/tierstake/cmd/tierstake/solo"
	"github.com/vechain/tierstake/distributor"
	"github.com/vechain/tierstake/health"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/metrics"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

const housekeepingInterval = 10 * time.Second

type service struct {
	engine   *pool.Engine
	logLevel *slog.LevelVar
	fund     *FundConfig
	funder   types.Address
	dataDir  string
	solo     bool
}

func runService(ctx *cli.Context, exitSignal context.Context, svc *service) error {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := api.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		log.Info("metrics server started", "url", url)
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
	}

	hlth := health.New(housekeepingInterval, ctx.Duration(maxClockOffsetFlag.Name))

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), svc.logLevel, apiLogs, hlth)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		adminURL = url
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
	}

	handler := api.New(svc.engine, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		SoloMode:             svc.solo,
	})
	timeout := time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond
	apiURL, stopAPI, err := api.StartAPIServer(ctx.String(apiAddrFlag.Name), handler, timeout)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); stopAPI() }()

	if svc.fund != nil {
		d, err := distributor.New(svc.engine, svc.fund.Schedule, svc.funder, svc.fund.amount(), svc.fund.Window)
		if err != nil {
			return errors.Wrap(err, "distributor")
		}
		d.Start()
		defer d.Stop()
	}

	printStartupMessage(svc, apiURL, adminURL)

	return node.New(svc.engine, hlth, node.Options{
		TickInterval:   housekeepingInterval,
		NTPServer:      ctx.String(ntpServerFlag.Name),
		MaxClockOffset: ctx.Duration(maxClockOffsetFlag.Name),
	}).Run(exitSignal)
}

func printStartupMessage(svc *service, apiURL, adminURL string) {
	status, err := svc.engine.Status()
	if err != nil {
		log.Warn("failed to read pool status", "err", err)
		return
	}
	cfg, err := svc.engine.Config()
	if err != nil {
		log.Warn("failed to read pool config", "err", err)
		return
	}

	fund := "disabled"
	if svc.fund != nil {
		fund = fmt.Sprintf("%v every %q", svc.fund.amount(), svc.fund.Schedule)
	}
	if adminURL == "" {
		adminURL = "disabled"
	}

	fmt.Printf(`Starting %v
    Owner        [ %v ]
    Period       [ #%v, %vs long ]
    Tiers        [ %v ]
    Funding      [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Admin portal [ %v ]
%v`,
		fullVersion(),
		status.Owner,
		status.CurrentPeriod, cfg.RewardPeriodLength,
		formatTiers(cfg.TierMinDurations, cfg.TierRewardShareBps),
		fund,
		svc.dataDir,
		apiURL,
		adminURL,
		soloAccounts(svc.solo),
	)
}

func formatTiers(durations []uint64, shares []uint16) string {
	parts := make([]string, 0, len(durations))
	for i := range durations {
		parts = append(parts, fmt.Sprintf("%vs:%vbps", durations[i], shares[i]))
	}
	return strings.Join(parts, " ")
}

func soloAccounts(isSolo bool) string {
	if !isSolo {
		return ""
	}
	var b strings.Builder
	b.WriteString("    Dev accounts:\n")
	for _, acc := range solo.DevAccounts() {
		fmt.Fprintf(&b, "      %v\n", acc.Address)
	}
	return b.String()
}
