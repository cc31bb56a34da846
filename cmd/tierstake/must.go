// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/lvldb"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d: exceeds max int", val)
	}
	return int(val), nil
}

// approximate heap held by one cached state slot
const stateSlotBytes = 256

// normalizeCacheSize bounds the state cache to what the host memory allows.
func normalizeCacheSize(slots int) int {
	if slots <= 0 {
		return 0
	}
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
		return slots
	}
	return limitCacheSize(slots, mem.Total)
}

func limitCacheSize(slots int, totalMem uint64) int {
	// limit to 1/8 os physical ram
	limit := totalMem / 8 / stateSlotBytes
	if limit < 1 {
		limit = 1
	}
	if uint64(slots) > limit {
		log.Warn("state cache size limited", "limit", limit)
		return int(min(limit, math.MaxInt))
	}
	return slots
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}

	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(lvl))

	output := io.Writer(os.Stdout)
	isTerminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	var handler slog.Handler
	switch {
	case ctx.Bool(jsonLogsFlag.Name):
		handler = log.JSONHandlerWithLevel(output, &level)
	case isTerminal:
		handler = log.NewTerminalHandlerWithLevel(output, &level, os.Getenv("TERM") != "dumb")
	default:
		handler = log.LogfmtHandlerWithLevel(output, &level)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(dir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

// openEventDB returns nil when event history is skipped.
func openEventDB(ctx *cli.Context, dir string) (*eventdb.EventDB, error) {
	if ctx.Bool(skipEventsFlag.Name) {
		return nil, nil
	}
	path := filepath.Join(dir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", path)
	}
	return db, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.tierstake")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.tierstake")
		default:
			return filepath.Join(home, ".org.vechain.tierstake")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
