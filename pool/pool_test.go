// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"context"
	"math/big"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/staker"
	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/kv"
	"github.com/vechain/tierstake/lvldb"
	"github.com/vechain/tierstake/types"
)

var (
	owner = types.BytesToAddress([]byte("owner"))
	alice = types.BytesToAddress([]byte("alice"))
	bob   = types.BytesToAddress([]byte("bob"))
)

func testConfig() *config.PoolConfig {
	return &config.PoolConfig{
		StakingStartAt:     1000,
		RewardPeriodLength: 100,
		ForceExitFeeBps:    1000,
		TierMinDurations:   []uint64{100, 200, 400, 800},
		TierRewardShareBps: []uint16{2500, 2500, 2500, 2500},
	}
}

type testClock struct{ atomic.Uint64 }

func (c *testClock) now() uint64 { return c.Load() }

func newEngine(t *testing.T, store kv.Store) (*Engine, *testClock) {
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	clock := &testClock{}
	clock.Store(1000)

	e, err := New(store, events, Options{CacheSize: 128, Now: clock.now})
	require.NoError(t, err)

	ok, err := e.Init(testConfig(), owner)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, e.Mint(StakeAsset, alice, big.NewInt(1000)))
	require.NoError(t, e.Mint(StakeAsset, bob, big.NewInt(1000)))
	require.NoError(t, e.Mint(RewardAsset, owner, big.NewInt(1_000_000)))
	return e, clock
}

func memStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func balance(t *testing.T, e *Engine, a Asset, addr types.Address) int64 {
	bal, err := e.Balance(a, addr)
	require.NoError(t, err)
	return bal.Int64()
}

func TestEngine_Lifecycle(t *testing.T) {
	e, clock := newEngine(t, memStore(t))

	ok, err := e.Init(config.Default(0), bob)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.Stake(alice, 100, big.NewInt(100)))
	assert.Equal(t, int64(900), balance(t, e, StakeAsset, alice))

	clock.Store(1050)
	require.NoError(t, e.Fund(owner, big.NewInt(1000)))

	view, err := e.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(250), view.Pending.Int64())
	assert.Equal(t, int64(100), view.TotalStaked.Int64())
	assert.True(t, view.IsLocked)

	claimed, err := e.Claim(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(250), claimed.Int64())
	assert.Equal(t, int64(250), balance(t, e, RewardAsset, alice))

	clock.Store(1200)
	returned, err := e.Unstake(alice, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), returned.Int64())
	assert.Equal(t, int64(1000), balance(t, e, StakeAsset, alice))

	status, err := e.Status()
	require.NoError(t, err)
	assert.Equal(t, uint64(1200), status.Now)
	assert.Equal(t, uint64(2), status.CurrentPeriod)
	assert.Equal(t, uint64(1), status.FundedBoundary)
	assert.Equal(t, int64(750), status.RewardBalance.Int64())
	assert.Equal(t, owner, status.Owner)
	assert.False(t, status.Paused)

	events, err := e.Events(context.Background(), &eventdb.Filter{Account: &alice})
	require.NoError(t, err)
	var kinds []string
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []string{staker.EventStaked, staker.EventClaimed, staker.EventUnstaked}, kinds)
	assert.Equal(t, uint64(1200), events[2].Time)
}

func TestEngine_SubscribeEvents(t *testing.T) {
	e, clock := newEngine(t, memStore(t))

	ch := make(chan []*eventdb.Event, 4)
	sub := e.SubscribeEvents(ch)

	require.NoError(t, e.Stake(alice, 100, big.NewInt(100)))
	// reverted calls publish nothing
	assert.Error(t, e.Stake(alice, 100, big.NewInt(0)))
	clock.Store(1050)
	require.NoError(t, e.SetPaused(owner, true))

	staked := <-ch
	require.Len(t, staked, 1)
	assert.Equal(t, staker.EventStaked, staked[0].Kind)
	assert.Equal(t, alice, staked[0].Account)
	assert.Equal(t, uint64(1000), staked[0].Time)

	paused := <-ch
	require.Len(t, paused, 1)
	assert.Equal(t, EventPaused, paused[0].Kind)
	assert.Equal(t, uint64(1050), paused[0].Time)
	// numbered like the history
	assert.Equal(t, staked[0].Seq+1, paused[0].Seq)
	assert.Empty(t, ch)

	e.Close()
	select {
	case _, ok := <-sub.Err():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestEngine_Atomicity(t *testing.T) {
	e, _ := newEngine(t, memStore(t))

	err := e.Stake(alice, 100, big.NewInt(1001))
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	view, err := e.Account(alice)
	require.NoError(t, err)
	assert.False(t, view.Initialized)
	assert.Equal(t, int64(0), view.TotalStaked.Int64())

	shares, err := e.Shares(0, alice)
	require.NoError(t, err)
	for _, s := range shares {
		assert.Equal(t, int64(0), s.Int64())
	}

	status, err := e.Status()
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalStaked.Int64())
	assert.Equal(t, int64(0), status.StakerCount.Int64())

	events, err := e.Events(context.Background(), &eventdb.Filter{Kinds: []string{staker.EventStaked}})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEngine_Guards(t *testing.T) {
	e, clock := newEngine(t, memStore(t))

	assert.ErrorIs(t, e.Fund(alice, big.NewInt(1)), reverts.ErrUnauthorized)
	assert.ErrorIs(t, e.SetPaused(alice, true), reverts.ErrUnauthorized)
	assert.ErrorIs(t, e.TransferOwnership(alice, alice), reverts.ErrUnauthorized)

	require.NoError(t, e.Stake(alice, 100, big.NewInt(100)))
	require.NoError(t, e.SetPaused(owner, true))

	assert.ErrorIs(t, e.Stake(bob, 100, big.NewInt(100)), reverts.ErrPaused)
	_, err := e.Unstake(alice, big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrPaused)
	_, err = e.Restake(alice, 100, 1)
	assert.ErrorIs(t, err, reverts.ErrPaused)
	_, err = e.RestakePortion(alice, 100, 1, big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrPaused)
	_, err = e.Claim(alice)
	assert.ErrorIs(t, err, reverts.ErrPaused)
	assert.ErrorIs(t, e.Fund(owner, big.NewInt(1)), reverts.ErrPaused)

	require.NoError(t, e.SetPaused(owner, false))
	clock.Store(1200)
	remainder, err := e.RestakePortion(alice, 100, 1, big.NewInt(60))
	require.NoError(t, err)
	assert.Equal(t, int64(40), remainder.Int64())

	require.NoError(t, e.TransferOwnership(owner, bob))
	assert.ErrorIs(t, e.SetPaused(owner, true), reverts.ErrUnauthorized)
	require.NoError(t, e.SetPaused(bob, true))

	events, err := e.Events(context.Background(), &eventdb.Filter{
		Kinds: []string{EventPaused, EventUnpaused, EventOwnerChanged},
	})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, EventOwnerChanged, events[2].Kind)
	assert.Equal(t, bob, events[2].Account)
}

func TestEngine_UpdateConfig(t *testing.T) {
	e, _ := newEngine(t, memStore(t))

	u := &config.Update{
		ForceExitFeeBps:    500,
		TierMinDurations:   []uint64{50, 200, 400, 800},
		TierRewardShareBps: []uint16{1000, 2000, 3000, 4000},
	}
	assert.ErrorIs(t, e.UpdateConfig(alice, u), reverts.ErrUnauthorized)
	require.NoError(t, e.UpdateConfig(owner, u))

	cfg, err := e.Config()
	require.NoError(t, err)
	assert.Equal(t, uint16(500), cfg.ForceExitFeeBps)
	assert.Equal(t, uint64(1000), cfg.StakingStartAt)

	tier, err := e.TierFor(250)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), tier)

	u.TierMinDurations = u.TierMinDurations[:3]
	assert.ErrorIs(t, e.UpdateConfig(owner, u), reverts.ErrInvalidConfig)
}

func TestEngine_Queries(t *testing.T) {
	e, clock := newEngine(t, memStore(t))

	require.NoError(t, e.Stake(alice, 200, big.NewInt(100)))
	clock.Store(1010)
	require.NoError(t, e.Fund(owner, big.NewInt(400)))

	view, err := e.ClockAt(1250)
	require.NoError(t, err)
	assert.Equal(t, &ClockView{Time: 1250, Period: 2, Start: 1200, End: 1300}, view)

	p, err := e.Period(0)
	require.NoError(t, err)
	assert.True(t, p.Funded)
	require.NotNil(t, p.Reward)
	assert.Equal(t, int64(400), p.Reward.Amount.Int64())
	assert.Equal(t, int64(50*10000), p.TierTotals[1].Int64())

	p, err = e.Period(1)
	require.NoError(t, err)
	assert.False(t, p.Funded)
	assert.Nil(t, p.Reward)

	shares, err := e.Shares(1, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(50*10000), shares[1].Int64())

	_, err = e.Balance(Asset("gold"), alice)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)
	assert.ErrorIs(t, e.Mint(StakeAsset, alice, big.NewInt(0)), reverts.ErrInvalidInput)
}

func TestEngine_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")

	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	e, _ := newEngine(t, db)
	require.NoError(t, e.Stake(alice, 100, big.NewInt(100)))
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	reopened, err := New(db, nil, Options{Now: func() uint64 { return 1000 }})
	require.NoError(t, err)

	view, err := reopened.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(100), view.TotalStaked.Int64())
	assert.Equal(t, int64(900), balance(t, reopened, StakeAsset, alice))

	_, err = reopened.Events(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoEventHistory)
}

func TestEngine_ConcurrentStakes(t *testing.T) {
	e, _ := newEngine(t, memStore(t))

	stakers := make([]types.Address, 20)
	for i := range stakers {
		stakers[i] = types.BytesToAddress([]byte{byte(i + 1)})
		require.NoError(t, e.Mint(StakeAsset, stakers[i], big.NewInt(100)))
	}

	var g errgroup.Group
	for _, s := range stakers {
		g.Go(func() error {
			return e.Stake(s, 100, big.NewInt(10))
		})
	}
	require.NoError(t, g.Wait())

	status, err := e.Status()
	require.NoError(t, err)
	assert.Equal(t, int64(200), status.TotalStaked.Int64())
	assert.Equal(t, int64(20), status.StakerCount.Int64())

	p, err := e.Period(0)
	require.NoError(t, err)
	assert.Equal(t, int64(200*10000), p.TierTotals[0].Int64())

	hit, miss := e.CacheStats()
	assert.NotZero(t, hit+miss)
}
