// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/types"
)

// Config is the pool config file.
//
//	owner: "0x..."
//	pool:
//	  staking-start-at: 1735689600
//	  reward-period-length: 604800
//	  force-exit-fee-bps: 1000
//	  tier-min-durations: [604800, 2592000, 7776000, 15552000]
//	  tier-reward-share-bps: [1000, 2000, 3000, 4000]
//	fund:
//	  schedule: "@hourly"
//	  amount: "1000000000000000000000"
//	  window: 24h
type Config struct {
	Owner types.Address      `yaml:"owner"`
	Pool  *config.PoolConfig `yaml:"pool"`
	Fund  *FundConfig        `yaml:"fund"`
}

// FundConfig schedules automatic reward funding by the owner. Funding only
// happens within Window of the end of a period.
type FundConfig struct {
	Schedule string               `yaml:"schedule"`
	Amount   math.HexOrDecimal256 `yaml:"amount"`
	Window   time.Duration        `yaml:"window,omitempty"`
}

func (f *FundConfig) amount() *big.Int {
	return (*big.Int)(&f.Amount)
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config file")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Owner.IsZero() {
		return errors.New("owner not specified")
	}
	if c.Pool == nil {
		c.Pool = config.Default(uint64(time.Now().Unix()))
	}
	if err := c.Pool.Validate(); err != nil {
		return errors.Wrap(err, "pool config")
	}
	if c.Fund != nil {
		if c.Fund.Schedule == "" {
			return errors.New("fund schedule not specified")
		}
		if c.Fund.amount().Sign() <= 0 {
			return errors.New("fund amount must be positive")
		}
		if c.Fund.Window < 0 || c.Fund.Window > time.Duration(c.Pool.RewardPeriodLength)*time.Second {
			return errors.New("fund window must be within the reward period")
		}
	}
	return nil
}

// applyFundFlags lets the command line override the funding schedule.
func (c *Config) applyFundFlags(schedule, amount string) error {
	if schedule == "" && amount == "" {
		return nil
	}
	if c.Fund == nil {
		c.Fund = &FundConfig{}
	}
	if schedule != "" {
		c.Fund.Schedule = schedule
	}
	if amount != "" {
		if err := c.Fund.Amount.UnmarshalText([]byte(amount)); err != nil {
			return errors.Wrap(err, "fund amount")
		}
	}
	return c.validate()
}
