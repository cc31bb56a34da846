// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/lvldb"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

func TestDevAccounts(t *testing.T) {
	accs := DevAccounts()
	require.Len(t, accs, 10)
	assert.Equal(t, "0xf077b491b355e64048ce21e3a6fc4751eeea77fa", accs[0].Address.String())

	seen := make(map[types.Address]bool)
	for _, acc := range accs {
		assert.Equal(t, acc.Address, types.Address(crypto.PubkeyToAddress(acc.PrivateKey.PublicKey)))
		seen[acc.Address] = true
	}
	assert.Len(t, seen, 10)
}

func TestConfig(t *testing.T) {
	cfg := Config(100, 60)
	assert.Equal(t, uint64(100), cfg.StakingStartAt)
	assert.Equal(t, uint64(60), cfg.RewardPeriodLength)
	assert.Equal(t, []uint64{60, 120, 240, 480}, cfg.TierMinDurations)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(7*24*60*60), Config(100, 0).RewardPeriodLength)
}

func TestSetup(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	engine, err := pool.New(db, nil, pool.Options{Now: func() uint64 { return 5000 }})
	require.NoError(t, err)

	cfg, err := Setup(engine, Options{PeriodLength: 10, Balance: big.NewInt(77)})
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), cfg.StakingStartAt)

	status, err := engine.Status()
	require.NoError(t, err)
	assert.Equal(t, DevAccounts()[0].Address, status.Owner)

	for _, acc := range DevAccounts() {
		bal, err := engine.Balance(pool.StakeAsset, acc.Address)
		require.NoError(t, err)
		assert.Equal(t, "77", bal.String())
		bal, err = engine.Balance(pool.RewardAsset, acc.Address)
		require.NoError(t, err)
		assert.Equal(t, "77", bal.String())
	}

	_, err = Setup(engine, Options{})
	assert.Error(t, err)
}
