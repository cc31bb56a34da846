// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/types"
)

var (
	slotRecords  = types.BytesToBytes32([]byte("reward-records"))
	slotBoundary = types.BytesToBytes32([]byte("funded-boundary"))
)

// Record is the reward deposited for one period. TierShareBps is the tier
// split in force when the period was funded.
type Record struct {
	FundedAt     uint64
	Amount       *big.Int
	TierShareBps []uint16
}

type period uint64

func (p period) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(p))
}

// Service stores reward records and the funded boundary: the lowest period
// index not yet funded. Periods below it are frozen.
type Service struct {
	records  *solidity.Mapping[period, *Record]
	boundary *solidity.Raw[uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		records:  solidity.NewMapping[period, *Record](sctx, slotRecords),
		boundary: solidity.NewRaw[uint64](sctx, slotBoundary),
	}
}

// Get returns the record of period i, nil when unfunded.
func (s *Service) Get(i uint64) (*Record, error) {
	rec, err := s.records.Get(period(i))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward record")
	}
	return rec, nil
}

// Set stores the record of period i, replacing any previous one.
func (s *Service) Set(i uint64, rec *Record) error {
	if err := s.records.Set(period(i), rec); err != nil {
		return errors.Wrap(err, "failed to set reward record")
	}
	return nil
}

// FundedBoundary returns the lowest period index not yet funded.
func (s *Service) FundedBoundary() (uint64, error) {
	b, err := s.boundary.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get funded boundary")
	}
	return b, nil
}

// Advance moves the boundary to next if it is ahead. The boundary never
// moves backward.
func (s *Service) Advance(next uint64) error {
	current, err := s.FundedBoundary()
	if err != nil {
		return err
	}
	if next <= current {
		return nil
	}
	if err := s.boundary.Set(next); err != nil {
		return errors.Wrap(err, "failed to set funded boundary")
	}
	return nil
}
