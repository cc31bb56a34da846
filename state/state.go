// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tierstake/cache"
	"github.com/vechain/tierstake/kv"
	"github.com/vechain/tierstake/stackedmap"
	"github.com/vechain/tierstake/types"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return "state: " + e.cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr types.Address
	key  types.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, types.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages contract storage slots on top of a kv store.
// Writes are journaled in memory and only reach the store through Stage.
type State struct {
	store kv.Store
	cache *cache.LRU
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create a state object backed by store. The optional cache is shared by
// every state opened on the same store and must only be populated with
// committed values.
func New(store kv.Store, c *cache.LRU) *State {
	s := &State{
		store: store,
		cache: c,
	}
	s.sm = stackedmap.New(s.load)
	s.sm.Push()
	return s
}

func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	loader := func(any) (any, error) {
		val, err := s.store.Get(key.bytes())
		if err != nil {
			if s.store.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(val), nil
	}

	var (
		v   any
		err error
	)
	if s.cache != nil {
		v, err = s.cache.GetOrLoad(key, loader)
	} else {
		v, err = loader(key)
	}
	if err != nil {
		return nil, false, err
	}
	raw := v.(rlp.RawValue)
	return raw, len(raw) > 0, nil
}

// GetRawStorage returns storage value in rlp raw for given key.
// An empty value means the slot is unset.
func (s *State) GetRawStorage(addr types.Address, key types.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in rlp raw. An empty value clears the slot.
func (s *State) SetRawStorage(addr types.Address, key types.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr types.Address, key types.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr types.Address, key types.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		panic("state: cannot revert the base level")
	}
	s.sm.PopTo(revision)
}

// Stage collects all journaled changes so they can be written in one bulk.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		changes[key] = value
		return true
	})
	return &Stage{store: s.store, cache: s.cache, changes: changes}
}
