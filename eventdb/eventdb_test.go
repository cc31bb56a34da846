// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tierstake/builtin/staker"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/types"
)

var (
	alice = types.BytesToAddress([]byte("alice"))
	bob   = types.BytesToAddress([]byte("bob"))
)

func newEvents() []*eventdb.Event {
	var events []*eventdb.Event
	for i := range 100 {
		who := alice
		if i%2 == 1 {
			who = bob
		}
		kind := staker.EventStaked
		if i%10 == 0 {
			kind = staker.EventClaimed
		}
		events = append(events, eventdb.NewEvent(&staker.Event{
			Kind:     kind,
			Account:  who,
			Amount:   big.NewInt(int64(i)),
			Tier:     uint8(i % 4),
			Period:   uint64(i / 10),
			Duration: ^uint64(0),
		}, uint64(1000+i)))
	}
	return events
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	inserted := newEvents()
	require.NoError(t, db.Insert(inserted))
	require.NoError(t, db.Insert(nil))
	assert.Equal(t, uint64(1), inserted[0].Seq)
	assert.Equal(t, uint64(100), inserted[99].Seq)

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 100)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, "0", all[0].Amount.String())
	assert.Nil(t, all[0].Returned)
	assert.Equal(t, ^uint64(0), all[0].Duration)
	assert.Equal(t, alice, all[0].Account)

	limit := 5
	events, err := db.Filter(context.Background(), &eventdb.Filter{
		Account: &bob,
		Range:   &eventdb.Range{Unit: eventdb.Time, From: 1000, To: 1049},
		Options: &eventdb.Options{Offset: 0, Limit: uint64(limit)},
		Order:   eventdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, events, limit)
	assert.Equal(t, uint64(1049), events[0].Time)
	for _, ev := range events {
		assert.Equal(t, bob, ev.Account)
	}

	claims, err := db.Filter(context.Background(), &eventdb.Filter{
		Kinds: []string{staker.EventClaimed, staker.EventFunded},
		Range: &eventdb.Range{Unit: eventdb.Period, From: 3, To: 5},
	})
	require.NoError(t, err)
	require.Len(t, claims, 3)
	assert.Equal(t, uint64(3), claims[0].Period)
	assert.Equal(t, int64(30), claims[0].Amount.Int64())
}

func TestEventDB_Persistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(newEvents()[:3]))
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestEventDB_Cancelled(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Insert(newEvents()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.Filter(ctx, nil)
	assert.Error(t, err)
}

func BenchmarkInsert(b *testing.B) {
	db, err := eventdb.New(filepath.Join(b.TempDir(), "events.db"))
	require.NoError(b, err)
	defer db.Close()

	events := newEvents()
	b.ResetTimer()
	for b.Loop() {
		if err := db.Insert(events); err != nil {
			b.Fatal(err)
		}
	}
}
