// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/lvldb"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

func newSvc(t *testing.T) (*Service, types.Address, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	addr := types.BytesToAddress([]byte("gs"))
	return New(solidity.NewContext(addr, st, nil)), addr, st
}

func TestService_Empty(t *testing.T) {
	svc, _, _ := newSvc(t)
	stats, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "0", stats.TotalStaked.String())
	assert.Equal(t, "0", stats.StakerCount.String())
	assert.Equal(t, "0", stats.RewardBalance.String())
	assert.Equal(t, "0", stats.CollectedFees.String())
}

func TestService_Apply(t *testing.T) {
	svc, _, _ := newSvc(t)

	d := NewDelta().TrackStake(big.NewInt(0), big.NewInt(100))
	d.RewardsFunded.SetInt64(1000)
	require.NoError(t, svc.Apply(d))

	d = NewDelta().TrackStake(big.NewInt(100), big.NewInt(0))
	d.FeesCollected.SetInt64(10)
	d.RewardsClaimed.SetInt64(250)
	require.NoError(t, svc.Apply(d))

	stats, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "0", stats.TotalStaked.String())
	assert.Equal(t, "0", stats.StakerCount.String())
	assert.Equal(t, "750", stats.RewardBalance.String())
	assert.Equal(t, "10", stats.CollectedFees.String())

	bal, err := svc.RewardBalance()
	require.NoError(t, err)
	assert.Equal(t, "750", bal.String())
}

func TestService_Underflow(t *testing.T) {
	svc, _, _ := newSvc(t)

	d := NewDelta()
	d.RewardsClaimed.SetInt64(1)
	assert.ErrorIs(t, svc.Apply(d), solidity.ErrUint256Underflow)
}

func TestService_CorruptSlot(t *testing.T) {
	svc, addr, st := newSvc(t)
	st.SetRawStorage(addr, slotStakerCount, rlp.RawValue{0xFF})

	_, err := svc.Get()
	assert.ErrorContains(t, err, "failed to get staker count")
}

func TestDelta(t *testing.T) {
	d := NewDelta().
		TrackStake(big.NewInt(0), big.NewInt(5)).
		TrackStake(big.NewInt(5), big.NewInt(2)).
		TrackStake(big.NewInt(2), big.NewInt(2))

	assert.Equal(t, int64(5), d.StakeIncrease.Int64())
	assert.Equal(t, int64(3), d.StakeDecrease.Int64())
	assert.Equal(t, uint64(1), d.StakersJoined)
	assert.Equal(t, uint64(0), d.StakersLeft)

	sum := NewDelta().Add(d).Add(d).Add(nil)
	assert.Equal(t, int64(10), sum.StakeIncrease.Int64())
	assert.Equal(t, uint64(2), sum.StakersJoined)
}
