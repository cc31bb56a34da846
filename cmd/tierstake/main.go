// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tierstake/cmd/tierstake/solo"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/lvldb"
	"github.com/vechain/tierstake/pool"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		apiEventsLimitFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		verbosityFlag,
		jsonLogsFlag,
		pprofFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		ntpServerFlag,
		maxClockOffsetFlag,
	}
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "TierStake",
		Usage:     "Tiered time-weighted staking pool",
		Copyright: fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear),
		Flags: append([]cli.Flag{
			configFlag,
			dataDirFlag,
			cacheFlag,
			skipEventsFlag,
			fundScheduleFlag,
			fundAmountFlag,
		}, serviceFlags()...),
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "throwaway pool for test & dev",
				Flags: append([]cli.Flag{
					dataDirFlag,
					persistFlag,
					periodLengthFlag,
					cacheFlag,
					skipEventsFlag,
				}, serviceFlags()...),
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	if !ctx.IsSet(configFlag.Name) {
		cli.ShowAppHelp(ctx)
		return fmt.Errorf("-%s not specified", configFlag.Name)
	}
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if err := cfg.applyFundFlags(ctx.String(fundScheduleFlag.Name), ctx.String(fundAmountFlag.Name)); err != nil {
		return err
	}

	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	eventDB, err := openEventDB(ctx, dataDir)
	if err != nil {
		return err
	}
	if eventDB != nil {
		defer func() { log.Info("closing event database..."); eventDB.Close() }()
	}

	engine, err := pool.New(mainDB, eventDB, pool.Options{CacheSize: normalizeCacheSize(ctx.Int(cacheFlag.Name))})
	if err != nil {
		return err
	}
	defer engine.Close()
	initialised, err := engine.Init(cfg.Pool, cfg.Owner)
	if err != nil {
		return errors.Wrap(err, "init pool")
	}
	if !initialised {
		log.Info("pool loaded from data dir, config file pool section ignored", "dir", dataDir)
	}

	return runService(ctx, exitSignal, &service{
		engine:   engine,
		logLevel: logLevel,
		fund:     cfg.Fund,
		funder:   cfg.Owner,
		dataDir:  dataDir,
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		if mainDB, err = openMainDB(dataDir); err != nil {
			return err
		}
		if eventDB, err = openEventDB(ctx, dataDir); err != nil {
			return err
		}
	} else {
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if !ctx.Bool(skipEventsFlag.Name) {
			if eventDB, err = eventdb.NewMem(); err != nil {
				return err
			}
		}
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	if eventDB != nil {
		defer func() { log.Info("closing event database..."); eventDB.Close() }()
	}

	engine, err := pool.New(mainDB, eventDB, pool.Options{CacheSize: normalizeCacheSize(ctx.Int(cacheFlag.Name))})
	if err != nil {
		return err
	}
	defer engine.Close()
	if status, err := engine.Status(); err == nil && !status.Owner.IsZero() {
		log.Info("solo pool loaded from data dir", "dir", dataDir)
	} else if _, err := solo.Setup(engine, solo.Options{PeriodLength: ctx.Uint64(periodLengthFlag.Name)}); err != nil {
		return err
	}

	return runService(ctx, exitSignal, &service{
		engine:   engine,
		logLevel: logLevel,
		funder:   solo.DevAccounts()[0].Address,
		dataDir:  dataDir,
		solo:     true,
	})
}
