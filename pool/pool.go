// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin"
	"github.com/vechain/tierstake/builtin/authority"
	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/builtin/staker"
	"github.com/vechain/tierstake/builtin/staker/config"
	"github.com/vechain/tierstake/cache"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/kv"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

var logger = log.WithContext("pkg", "pool")

const (
	EventPaused       = "Paused"
	EventUnpaused     = "Unpaused"
	EventOwnerChanged = "OwnerChanged"
)

// Asset selects one of the two pool tokens.
type Asset string

const (
	StakeAsset  Asset = "stake"
	RewardAsset Asset = "reward"
)

// Options configures an Engine.
type Options struct {
	CacheSize int           // state read cache entries, 0 disables the cache
	Now       func() uint64 // time source, wall clock seconds if nil
}

// Engine serialises pool operations. Every mutating call runs as one
// transaction over a fresh state: it either commits all its storage changes
// in one batch or leaves the store untouched.
type Engine struct {
	mu     sync.RWMutex
	store  kv.Store
	cache  *cache.LRU
	events *eventdb.EventDB
	now    func() uint64

	feed  event.Feed
	scope event.SubscriptionScope
}

// stateBucket keeps pool state apart from anything else sharing the store.
const stateBucket = kv.Bucket("s.")

// New creates an engine on store. events may be nil to skip the history.
func New(store kv.Store, events *eventdb.EventDB, opts Options) (*Engine, error) {
	e := &Engine{
		store:  stateBucket.NewStore(store),
		events: events,
		now:    opts.Now,
	}
	if e.now == nil {
		e.now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if opts.CacheSize > 0 {
		c, err := cache.NewLRU(opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "create state cache")
		}
		e.cache = c
	}
	return e, nil
}

// SubscribeEvents delivers the events of every committed operation to ch.
// Sends block until ch is read, so subscribers must keep draining it.
func (e *Engine) SubscribeEvents(ch chan<- []*eventdb.Event) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}

// Close ends all event subscriptions.
func (e *Engine) Close() {
	e.scope.Close()
}

// Now returns the engine time.
func (e *Engine) Now() uint64 {
	return e.now()
}

// CacheStats returns the hit and miss counts of the state cache.
func (e *Engine) CacheStats() (hit, miss int64) {
	if e.cache == nil {
		return 0, 0
	}
	_, hit, miss = e.cache.Stats().Snapshot()
	return
}

type txn struct {
	state  *state.State
	meter  *solidity.Meter
	staker *staker.Staker
	auth   *authority.Authority
	now    uint64
	events []*eventdb.Event
}

func (e *Engine) newTxn() *txn {
	st := state.New(e.store, e.cache)
	meter := &solidity.Meter{}
	return &txn{
		state:  st,
		meter:  meter,
		staker: builtin.Pool.WithState(st, meter),
		auth:   builtin.Authority.WithState(st, meter),
		now:    e.now(),
	}
}

func (tx *txn) token(a Asset) (tokenLike, error) {
	switch a {
	case StakeAsset:
		return builtin.StakeToken.WithState(tx.state, tx.meter), nil
	case RewardAsset:
		return builtin.RewardToken.WithState(tx.state, tx.meter), nil
	}
	return nil, reverts.ErrInvalidInput.Withf("unknown asset %q", a)
}

type tokenLike interface {
	Mint(to types.Address, amount *big.Int) error
	BalanceOf(addr types.Address) (*big.Int, error)
}

// execute runs fn as one transaction and commits it when fn succeeds.
func (e *Engine) execute(op string, fn func(tx *txn) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	tx := e.newTxn()

	err := fn(tx)
	if err == nil {
		err = e.commit(tx)
	}

	outcome := "success"
	switch {
	case err == nil:
	case reverts.IsRevertErr(err):
		outcome = "reverted"
	default:
		outcome = "failed"
		logger.Error("operation failed", "op", op, "error", err)
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
	metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	return err
}

func (e *Engine) commit(tx *txn) error {
	if err := tx.state.Stage().Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	recordStorage(tx.meter)

	events := make([]*eventdb.Event, 0, len(tx.events)+len(tx.staker.Events()))
	for _, ev := range tx.staker.Events() {
		events = append(events, eventdb.NewEvent(ev, tx.now))
	}
	events = append(events, tx.events...)
	if e.events != nil {
		// the state is already durable, a lost history entry must not fail the call
		if err := e.events.Insert(events); err != nil {
			logger.Warn("failed to record events", "count", len(events), "error", err)
		}
	}
	if len(events) > 0 {
		e.feed.Send(events)
	}

	if stats, err := tx.staker.Stats(); err == nil {
		if boundary, err := tx.staker.FundedBoundary(); err == nil {
			recordStats(stats, boundary)
		}
	}
	return nil
}

// view runs fn over a fresh state that is thrown away afterwards.
func (e *Engine) view(fn func(tx *txn) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.newTxn())
}

// Init sets up the pool config and owner. It returns false when the pool
// was already initialised, leaving it untouched.
func (e *Engine) Init(cfg *config.PoolConfig, owner types.Address) (initialised bool, err error) {
	err = e.execute("init", func(tx *txn) error {
		ok, err := tx.staker.Initialize(cfg)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.auth.Init(owner); err != nil {
			return err
		}
		initialised = true
		return nil
	})
	return
}

func (e *Engine) Stake(caller types.Address, duration uint64, amount *big.Int) error {
	return e.execute("stake", func(tx *txn) error {
		if err := tx.auth.RequireNotPaused(); err != nil {
			return err
		}
		return tx.staker.Stake(caller, duration, amount, tx.now)
	})
}

func (e *Engine) Unstake(caller types.Address, amount *big.Int) (returned *big.Int, err error) {
	err = e.execute("unstake", func(tx *txn) error {
		if err := tx.auth.RequireNotPaused(); err != nil {
			return err
		}
		returned, err = tx.staker.Unstake(caller, amount, tx.now)
		return err
	})
	return
}

func (e *Engine) Restake(caller types.Address, duration, count uint64) (restaked *big.Int, err error) {
	err = e.execute("restake", func(tx *txn) error {
		if err := tx.auth.RequireNotPaused(); err != nil {
			return err
		}
		restaked, err = tx.staker.Restake(caller, duration, count, tx.now)
		return err
	})
	return
}

func (e *Engine) RestakePortion(caller types.Address, duration, count uint64, portion *big.Int) (remainder *big.Int, err error) {
	err = e.execute("restake_portion", func(tx *txn) error {
		if err := tx.auth.RequireNotPaused(); err != nil {
			return err
		}
		remainder, err = tx.staker.RestakePortion(caller, duration, count, portion, tx.now)
		return err
	})
	return
}

func (e *Engine) Fund(caller types.Address, amount *big.Int) error {
	return e.execute("fund", func(tx *txn) error {
		if err := tx.auth.RequireOwner(caller); err != nil {
			return err
		}
		if err := tx.auth.RequireNotPaused(); err != nil {
			return err
		}
		return tx.staker.Fund(caller, amount, tx.now)
	})
}

func (e *Engine) Claim(caller types.Address) (claimed *big.Int, err error) {
	err = e.execute("claim", func(tx *txn) error {
		if err := tx.auth.RequireNotPaused(); err != nil {
			return err
		}
		claimed, err = tx.staker.Claim(caller)
		return err
	})
	return
}

// SetPaused suspends or resumes every mutating operation but this one.
func (e *Engine) SetPaused(caller types.Address, paused bool) error {
	return e.execute("set_paused", func(tx *txn) error {
		if err := tx.auth.RequireOwner(caller); err != nil {
			return err
		}
		if err := tx.auth.SetPaused(paused); err != nil {
			return err
		}
		kind := EventUnpaused
		if paused {
			kind = EventPaused
		}
		tx.events = append(tx.events, &eventdb.Event{Kind: kind, Account: caller, Time: tx.now})
		logger.Info("pause switch changed", "paused", paused)
		return nil
	})
}

func (e *Engine) TransferOwnership(caller, newOwner types.Address) error {
	return e.execute("transfer_ownership", func(tx *txn) error {
		if err := tx.auth.RequireOwner(caller); err != nil {
			return err
		}
		if err := tx.auth.SetOwner(newOwner); err != nil {
			return err
		}
		tx.events = append(tx.events, &eventdb.Event{Kind: EventOwnerChanged, Account: newOwner, Time: tx.now})
		logger.Info("ownership transferred", "from", caller, "to", newOwner)
		return nil
	})
}

func (e *Engine) UpdateConfig(caller types.Address, u *config.Update) error {
	return e.execute("update_config", func(tx *txn) error {
		if err := tx.auth.RequireOwner(caller); err != nil {
			return err
		}
		return tx.staker.UpdateConfig(u)
	})
}

// Mint credits amount of an asset to an account out of nothing. Only solo
// deployments expose it.
func (e *Engine) Mint(a Asset, to types.Address, amount *big.Int) error {
	return e.execute("mint", func(tx *txn) error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrInvalidInput.Withf("amount must be positive")
		}
		token, err := tx.token(a)
		if err != nil {
			return err
		}
		return token.Mint(to, amount)
	})
}
