// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/reverts"
	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/types"
)

// ShareMultiplier is the fixed-point scale of share units.
const ShareMultiplier = 10000

var (
	slotShares = types.BytesToBytes32([]byte("ledger-shares"))
	slotTotals = types.BytesToBytes32([]byte("ledger-totals"))

	bigShareMultiplier = big.NewInt(ShareMultiplier)
)

// Units converts an amount of stake into share units.
func Units(amount *big.Int) *big.Int {
	return new(big.Int).Mul(amount, bigShareMultiplier)
}

type totalKey struct {
	period uint64
	tier   uint8
}

func (k totalKey) Bytes() []byte {
	var b [9]byte
	binary.BigEndian.PutUint64(b[:8], k.period)
	b[8] = k.tier
	return b[:]
}

type shareKey struct {
	totalKey
	account types.Address
}

func (k shareKey) Bytes() []byte {
	return append(k.totalKey.Bytes(), k.account.Bytes()...)
}

// BoundaryReader reports the funded boundary. Periods below it are frozen.
type BoundaryReader interface {
	FundedBoundary() (uint64, error)
}

// Service is the share ledger: per account shares and their per tier
// aggregates, both keyed by reward period.
type Service struct {
	shares   *solidity.Mapping[shareKey, *big.Int]
	totals   *solidity.Mapping[totalKey, *big.Int]
	boundary BoundaryReader
}

func New(sctx *solidity.Context, boundary BoundaryReader) *Service {
	return &Service{
		shares:   solidity.NewMapping[shareKey, *big.Int](sctx, slotShares),
		totals:   solidity.NewMapping[totalKey, *big.Int](sctx, slotTotals),
		boundary: boundary,
	}
}

// Share returns the units held by account in the tier during period.
func (s *Service) Share(period uint64, tier uint8, account types.Address) (*big.Int, error) {
	v, err := s.shares.Get(shareKey{totalKey{period, tier}, account})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get share")
	}
	return orZero(v), nil
}

// Total returns the units held by all accounts in the tier during period.
func (s *Service) Total(period uint64, tier uint8) (*big.Int, error) {
	v, err := s.totals.Get(totalKey{period, tier})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total share")
	}
	return orZero(v), nil
}

// Add credits units to the account and the aggregate.
func (s *Service) Add(period uint64, tier uint8, account types.Address, units *big.Int) error {
	if units.Sign() <= 0 {
		return nil
	}
	if err := s.requireOpen(period); err != nil {
		return err
	}
	share, err := s.Share(period, tier, account)
	if err != nil {
		return err
	}
	total, err := s.Total(period, tier)
	if err != nil {
		return err
	}
	if err := s.set(period, tier, account, share.Add(share, units), total.Add(total, units)); err != nil {
		return err
	}
	return nil
}

// Remove debits up to units from the account and the aggregate and returns
// the amount actually removed.
func (s *Service) Remove(period uint64, tier uint8, account types.Address, units *big.Int) (*big.Int, error) {
	if err := s.requireOpen(period); err != nil {
		return nil, err
	}
	share, err := s.Share(period, tier, account)
	if err != nil {
		return nil, err
	}
	removed := new(big.Int).Set(units)
	if share.Cmp(removed) < 0 {
		removed.Set(share)
	}
	if removed.Sign() <= 0 {
		return new(big.Int), nil
	}
	total, err := s.Total(period, tier)
	if err != nil {
		return nil, err
	}
	if total.Cmp(removed) < 0 {
		return nil, errors.Errorf("aggregate share of period %d tier %d below account share", period, tier)
	}
	if err := s.set(period, tier, account, share.Sub(share, removed), total.Sub(total, removed)); err != nil {
		return nil, err
	}
	return removed, nil
}

// Release removes units from the account's shares in tier, newest period
// first, starting at from and stopping at the funded boundary. It returns
// the units that could not be removed.
func (s *Service) Release(account types.Address, tier uint8, from uint64, units *big.Int) (*big.Int, error) {
	boundary, err := s.boundary.FundedBoundary()
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Set(units)
	if from < boundary {
		return remaining, nil
	}
	for p := from; remaining.Sign() > 0; p-- {
		removed, err := s.Remove(p, tier, account, remaining)
		if err != nil {
			return nil, err
		}
		remaining.Sub(remaining, removed)
		if p == boundary {
			break
		}
	}
	return remaining, nil
}

func (s *Service) requireOpen(period uint64) error {
	boundary, err := s.boundary.FundedBoundary()
	if err != nil {
		return err
	}
	if period < boundary {
		return reverts.ErrFrozenPeriod.Withf("period %d, funded boundary %d", period, boundary)
	}
	return nil
}

func (s *Service) set(period uint64, tier uint8, account types.Address, share, total *big.Int) error {
	if _, overflow := uint256.FromBig(total); overflow {
		return errors.Errorf("aggregate share of period %d tier %d overflows", period, tier)
	}
	sk := shareKey{totalKey{period, tier}, account}
	if share.Sign() == 0 {
		s.shares.Delete(sk)
	} else if err := s.shares.Set(sk, share); err != nil {
		return errors.Wrap(err, "failed to set share")
	}
	tk := totalKey{period, tier}
	if total.Sign() == 0 {
		s.totals.Delete(tk)
	} else if err := s.totals.Set(tk, total); err != nil {
		return errors.Wrap(err, "failed to set total share")
	}
	return nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
