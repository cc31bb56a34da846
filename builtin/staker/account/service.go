// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/types"
)

var slotAccounts = types.BytesToBytes32([]byte("accounts"))

type Service struct {
	accounts *solidity.Mapping[types.Address, *Account]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		accounts: solidity.NewMapping[types.Address, *Account](sctx, slotAccounts),
	}
}

// Get returns the account record. Unknown addresses yield an empty,
// uninitialised record, never nil.
func (s *Service) Get(addr types.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if acc == nil {
		return newAccount(), nil
	}
	acc.normalize()
	return acc, nil
}

func (s *Service) Set(addr types.Address, acc *Account) error {
	if err := s.accounts.Set(addr, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}
