// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo prepares a throwaway pool for local development.
package solo

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

var logger = log.WithContext("pkg", "solo")

// DevAccount is a well known account funded in solo mode.
type DevAccount struct {
	Address    types.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevAccounts returns the solo accounts. The first one owns the pool.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{types.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// Options for Setup.
type Options struct {
	// PeriodLength overrides the weekly reward period. Tier durations are
	// scaled to 1, 2, 4 and 8 periods.
	PeriodLength uint64
	// Balance is minted to every dev account in both assets.
	Balance *big.Int
}

// DefaultBalance is 1e9 units, scaled by 1e18.
var DefaultBalance = new(big.Int).Mul(big.NewInt(1e9), big.NewInt(1e18))

// Config returns the solo pool config, starting at start.
func Config(start uint64, periodLength uint64) *config.PoolConfig {
	cfg := config.Default(start)
	if periodLength > 0 {
		cfg.RewardPeriodLength = periodLength
		cfg.TierMinDurations = []uint64{periodLength, 2 * periodLength, 4 * periodLength, 8 * periodLength}
	}
	return cfg
}

// Setup initialises a fresh engine owned by the first dev account and funds
// every dev account.
func Setup(engine *pool.Engine, opts Options) (*config.PoolConfig, error) {
	balance := opts.Balance
	if balance == nil {
		balance = DefaultBalance
	}

	cfg := Config(engine.Now(), opts.PeriodLength)
	owner := DevAccounts()[0].Address
	ok, err := engine.Init(cfg, owner)
	if err != nil {
		return nil, errors.Wrap(err, "init pool")
	}
	if !ok {
		return nil, errors.New("pool already initialised")
	}

	for _, acc := range DevAccounts() {
		if err := engine.Mint(pool.StakeAsset, acc.Address, balance); err != nil {
			return nil, errors.Wrap(err, "mint stake")
		}
		if err := engine.Mint(pool.RewardAsset, acc.Address, balance); err != nil {
			return nil, errors.Wrap(err, "mint reward")
		}
	}
	logger.Info("solo pool ready", "owner", owner, "accounts", len(DevAccounts()), "period", cfg.RewardPeriodLength)
	return cfg, nil
}
