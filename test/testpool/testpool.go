// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testpool

import (
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/lvldb"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

// Start is the staking start of the test pool and the initial clock reading.
const Start = 1000

var (
	Owner = types.BytesToAddress([]byte("owner"))
	Alice = types.BytesToAddress([]byte("alice"))
	Bob   = types.BytesToAddress([]byte("bob"))
)

// Config returns a pool with 100 second periods and four tiers of equal
// reward share.
func Config() *config.PoolConfig {
	return &config.PoolConfig{
		StakingStartAt:     Start,
		RewardPeriodLength: 100,
		ForceExitFeeBps:    1000,
		TierMinDurations:   []uint64{100, 200, 400, 800},
		TierRewardShareBps: []uint16{2500, 2500, 2500, 2500},
	}
}

// Clock is a settable time source.
type Clock struct{ atomic.Uint64 }

func (c *Clock) Now() uint64 { return c.Load() }

// Advance moves the clock forward by d seconds.
func (c *Clock) Advance(d uint64) { c.Add(d) }

// Pool is an initialised in-memory engine. Alice and Bob hold 1000 stake
// tokens each, the owner holds 1000000 reward tokens.
type Pool struct {
	Engine *pool.Engine
	Clock  *Clock
	Events *eventdb.EventDB
}

// New creates a test pool, released when t finishes.
func New(t testing.TB) *Pool {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	clock := &Clock{}
	clock.Store(Start)

	engine, err := pool.New(db, events, pool.Options{CacheSize: 128, Now: clock.Now})
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	ok, err := engine.Init(Config(), Owner)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, engine.Mint(pool.StakeAsset, Alice, big.NewInt(1000)))
	require.NoError(t, engine.Mint(pool.StakeAsset, Bob, big.NewInt(1000)))
	require.NoError(t, engine.Mint(pool.RewardAsset, Owner, big.NewInt(1_000_000)))

	return &Pool{Engine: engine, Clock: clock, Events: events}
}
