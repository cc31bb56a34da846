// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/builtin/solidity"
	"github.com/vechain/tierstake/types"
)

var slotConfig = types.BytesToBytes32([]byte("pool-config"))

// Service persists the pool config.
type Service struct {
	config *solidity.Raw[*PoolConfig]
	cached *PoolConfig
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		config: solidity.NewRaw[*PoolConfig](sctx, slotConfig),
	}
}

// Get returns the stored config, nil if the pool is not initialised.
func (s *Service) Get() (*PoolConfig, error) {
	if s.cached != nil {
		return s.cached, nil
	}
	cfg, err := s.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool config")
	}
	s.cached = cfg
	return cfg, nil
}

// MustGet is like Get but fails when the pool is not initialised.
func (s *Service) MustGet() (*PoolConfig, error) {
	cfg, err := s.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("pool is not initialised")
	}
	return cfg, nil
}

// Set validates and stores the config.
func (s *Service) Set(cfg *PoolConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cpy := cfg.Copy()
	if err := s.config.Set(cpy); err != nil {
		return errors.Wrap(err, "failed to set pool config")
	}
	s.cached = cpy
	return nil
}
