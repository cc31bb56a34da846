// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tierstake/types"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a keyed storage variable. Each entry lives at
// blake2b(key, basePos) of the bound contract, rlp encoded.
type Mapping[K Key, V any] struct {
	context *Context
	basePos types.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos types.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) types.Bytes32 {
	return types.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the entry for key. A missing entry yields the zero value of V
// (nil for pointer types).
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		m.context.load(len(raw))
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores the entry for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		m.context.store(len(val))
		return val, nil
	})
}

// Delete clears the entry for key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.store(0)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
