// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/lvldb"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

func TestAccount(t *testing.T) {
	acc := newAccount()
	assert.False(t, acc.IsLocked(0))

	acc.TotalStaked.SetInt64(10)
	acc.UnlockAt = 100
	assert.True(t, acc.IsLocked(99))
	assert.False(t, acc.IsLocked(100))

	acc.HarvestAccrued.SetInt64(30)
	acc.HarvestClaimed.SetInt64(12)
	assert.Equal(t, int64(18), acc.Claimable().Int64())

	cpy := acc.Copy()
	cpy.TotalStaked.SetInt64(0)
	assert.Equal(t, int64(10), acc.TotalStaked.Int64())
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	svc := New(solidity.NewContext(types.BytesToAddress([]byte("staker")), state.New(db, nil), nil))
	addr := types.BytesToAddress([]byte("alice"))

	acc, err := svc.Get(addr)
	require.NoError(t, err)
	assert.False(t, acc.Initialized)
	assert.Equal(t, 0, acc.TotalStaked.Sign())

	acc.Initialized = true
	acc.TotalStaked = big.NewInt(500)
	acc.CurrentTier = 2
	acc.UnlockAt = 1234
	acc.LastSharePeriod = 9
	require.NoError(t, svc.Set(addr, acc))

	got, err := svc.Get(addr)
	require.NoError(t, err)
	assert.True(t, got.Initialized)
	assert.Equal(t, int64(500), got.TotalStaked.Int64())
	assert.Equal(t, uint8(2), got.CurrentTier)
	assert.Equal(t, uint64(1234), got.UnlockAt)
	assert.Equal(t, uint64(9), got.LastSharePeriod)
	assert.Equal(t, 0, got.HarvestAccrued.Sign())
}
