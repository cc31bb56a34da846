// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/state"
	"github.com/vechain/tierstake/types"
)

var (
	slotBalances = types.BytesToBytes32([]byte("balances"))
	slotSupply   = types.BytesToBytes32([]byte("total-supply"))

	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Token implements native methods of a fungible token contract.
type Token struct {
	addr     types.Address
	balances *solidity.Mapping[types.Address, *big.Int]
	supply   *solidity.Uint256
}

// New create a new instance.
func New(addr types.Address, state *state.State, meter *solidity.Meter) *Token {
	sctx := solidity.NewContext(addr, state, meter)
	return &Token{
		addr:     addr,
		balances: solidity.NewMapping[types.Address, *big.Int](sctx, slotBalances),
		supply:   solidity.NewUint256(sctx, slotSupply),
	}
}

// Address returns the token contract address.
func (t *Token) Address() types.Address {
	return t.addr
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr types.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// TotalSupply returns the amount minted so far.
func (t *Token) TotalSupply() (*big.Int, error) {
	supply, err := t.supply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

// Mint creates amount out of thin air for to.
func (t *Token) Mint(to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("negative mint amount %v", amount)
	}
	if err := t.supply.Add(amount); err != nil {
		return errors.Wrap(err, "failed to update total supply")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, bal.Add(bal, amount))
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("negative transfer amount %v", amount)
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errors.WithMessagef(ErrInsufficientBalance, "%v has %v, needs %v", from, fromBal, amount)
	}
	if from == to || amount.Sign() == 0 {
		return nil
	}
	if err := t.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, toBal.Add(toBal, amount))
}

func (t *Token) setBalance(addr types.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	if err := t.balances.Set(addr, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

// Vault moves a token between accounts and a single holder, typically the
// pool contract.
type Vault struct {
	token  *Token
	holder types.Address
}

// NewVault returns a vault keeping token on behalf of holder.
func NewVault(token *Token, holder types.Address) *Vault {
	return &Vault{token: token, holder: holder}
}

// Debit pulls amount from an account into the vault.
func (v *Vault) Debit(from types.Address, amount *big.Int) error {
	return v.token.Transfer(from, v.holder, amount)
}

// Credit pays amount out of the vault.
func (v *Vault) Credit(to types.Address, amount *big.Int) error {
	return v.token.Transfer(v.holder, to, amount)
}

// Balance returns what the vault holds.
func (v *Vault) Balance() (*big.Int, error) {
	return v.token.BalanceOf(v.holder)
}
