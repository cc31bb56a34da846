// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

var (
	slotOwner  = types.BytesToBytes32([]byte("owner"))
	slotPaused = types.BytesToBytes32([]byte("paused"))
)

// Authority implements the ownership and pause switch of the pool.
type Authority struct {
	owner  *solidity.Raw[types.Address]
	paused *solidity.Raw[bool]
}

// New create a new instance.
func New(addr types.Address, state *state.State, meter *solidity.Meter) *Authority {
	sctx := solidity.NewContext(addr, state, meter)
	return &Authority{
		owner:  solidity.NewRaw[types.Address](sctx, slotOwner),
		paused: solidity.NewRaw[bool](sctx, slotPaused),
	}
}

// Init sets the first owner. It returns false if an owner is already set.
func (a *Authority) Init(owner types.Address) (bool, error) {
	current, err := a.Owner()
	if err != nil {
		return false, err
	}
	if !current.IsZero() {
		return false, nil
	}
	if err := a.SetOwner(owner); err != nil {
		return false, err
	}
	return true, nil
}

// Owner returns the current owner, zero if unset.
func (a *Authority) Owner() (types.Address, error) {
	owner, err := a.owner.Get()
	if err != nil {
		return types.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

// SetOwner transfers ownership.
func (a *Authority) SetOwner(owner types.Address) error {
	if owner.IsZero() {
		return reverts.ErrInvalidInput.Withf("owner must not be zero")
	}
	if err := a.owner.Set(owner); err != nil {
		return errors.Wrap(err, "failed to set owner")
	}
	return nil
}

// RequireOwner fails with ErrUnauthorized unless caller is the owner.
func (a *Authority) RequireOwner(caller types.Address) error {
	owner, err := a.Owner()
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != caller {
		return reverts.ErrUnauthorized.Withf("%v is not the owner", caller)
	}
	return nil
}

// Paused returns whether mutating operations are suspended.
func (a *Authority) Paused() (bool, error) {
	paused, err := a.paused.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get paused flag")
	}
	return paused, nil
}

// SetPaused flips the pause switch.
func (a *Authority) SetPaused(paused bool) error {
	if err := a.paused.Set(paused); err != nil {
		return errors.Wrap(err, "failed to set paused flag")
	}
	return nil
}

// RequireNotPaused fails with ErrPaused while the pool is paused.
func (a *Authority) RequireNotPaused() error {
	paused, err := a.Paused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}
