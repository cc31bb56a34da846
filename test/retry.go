// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package test holds helpers shared by package tests.
package test

import (
	"time"

	"github.com/pkg/errors"
)

// Retry calls fn every interval until it succeeds or timeout elapses, in
// which case the last error is returned.
func Retry(fn func() error, interval, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := fn()
		if err == nil {
			return nil
		}
		select {
		case <-deadline.C:
			return errors.Wrap(err, "retry timeout")
		case <-ticker.C:
		}
	}
}
