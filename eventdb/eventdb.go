// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/types"
)

// EventDB keeps the history of pool events.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert writes events in one transaction.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	seqs := make([]int64, 0, len(events))
	for _, ev := range events {
		res, err := tx.Exec("INSERT INTO event(kind, account, amount, returned, tier, period, duration, unlockAt, time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
			ev.Kind,
			ev.Account.Bytes(),
			amountValue(ev.Amount),
			amountValue(ev.Returned),
			ev.Tier,
			int64(ev.Period),
			int64(ev.Duration),
			int64(ev.UnlockAt),
			int64(ev.Time),
		)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
		seq, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
		seqs = append(seqs, seq)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	for i, ev := range events {
		ev.Seq = uint64(seqs[i])
	}
	return nil
}

// Filter returns events matching filter, all events if nil.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		condition := "time"
		if filter.Range.Unit == Period {
			condition = "period"
		}
		args = append(args, int64(filter.Range.From))
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, int64(filter.Range.To))
			stmt += " AND " + condition + " <= ? "
		}
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (?" + strings.Repeat(", ?", len(filter.Kinds)-1) + ") "
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, int64(filter.Options.Offset), int64(filter.Options.Limit))
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      int64
			kind     string
			account  []byte
			amount   []byte
			returned []byte
			tier     uint8
			period   int64
			duration int64
			unlockAt int64
			time     int64
		)
		if err := rows.Scan(
			&seq,
			&kind,
			&account,
			&amount,
			&returned,
			&tier,
			&period,
			&duration,
			&unlockAt,
			&time,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:      uint64(seq),
			Kind:     kind,
			Account:  types.BytesToAddress(account),
			Amount:   amountFromValue(amount),
			Returned: amountFromValue(returned),
			Tier:     tier,
			Period:   uint64(period),
			Duration: uint64(duration),
			UnlockAt: uint64(unlockAt),
			Time:     uint64(time),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func amountValue(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	if v.Sign() == 0 {
		return []byte{0}
	}
	return v.Bytes()
}

func amountFromValue(b []byte) *big.Int {
	if b == nil {
		return nil
	}
	return new(big.Int).SetBytes(b)
}
