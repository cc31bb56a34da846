// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/tierstake/builtin/asset"
	"github.com/vechain/tierstake/builtin/authority"
	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/builtin/staker"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

// Builtin contracts binding.
var (
	Pool        = &poolContract{contract{types.BytesToAddress([]byte("TierStakePool"))}}
	Authority   = &authorityContract{contract{types.BytesToAddress([]byte("PoolAuthority"))}}
	StakeToken  = &tokenContract{contract{types.BytesToAddress([]byte("StakeToken"))}}
	RewardToken = &tokenContract{contract{types.BytesToAddress([]byte("RewardToken"))}}
)

type contract struct {
	Address types.Address
}

type (
	poolContract      struct{ contract }
	authorityContract struct{ contract }
	tokenContract     struct{ contract }
)

// WithState binds the pool to state, moving both tokens in and out of the
// pool address.
func (p *poolContract) WithState(state *state.State, meter *solidity.Meter) *staker.Staker {
	return staker.New(
		p.Address,
		state,
		meter,
		asset.NewVault(StakeToken.WithState(state, meter), p.Address),
		asset.NewVault(RewardToken.WithState(state, meter), p.Address),
	)
}

func (a *authorityContract) WithState(state *state.State, meter *solidity.Meter) *authority.Authority {
	return authority.New(a.Address, state, meter)
}

func (t *tokenContract) WithState(state *state.State, meter *solidity.Meter) *asset.Token {
	return asset.New(t.Address, state, meter)
}
