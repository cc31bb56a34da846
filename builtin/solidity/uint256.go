// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/types"
)

var (
	ErrUint256Overflow  = errors.New("uint256 overflow")
	ErrUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is an unsigned 256-bit counter slot.
type Uint256 struct {
	raw *Raw[*big.Int]
}

func NewUint256(context *Context, pos types.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*big.Int](context, pos)}
}

// Get returns the stored value, zero if unset.
func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.raw.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return ErrUint256Underflow
	}
	if _, overflow := uint256.FromBig(value); overflow {
		return ErrUint256Overflow
	}
	return u.raw.Set(value)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

// Sub subtracts value, failing instead of wrapping below zero.
func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return ErrUint256Underflow
	}
	return u.Set(storage.Sub(storage, value))
}
