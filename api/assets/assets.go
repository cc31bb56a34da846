// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/api/utils"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

type Balance struct {
	Asset   pool.Asset            `json:"asset"`
	Address types.Address         `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type MintRequest struct {
	To     types.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Assets exposes the stake and reward token balances. Minting is only
// mounted when enabled, for solo deployments.
type Assets struct {
	engine    *pool.Engine
	allowMint bool
}

func New(engine *pool.Engine, allowMint bool) *Assets {
	return &Assets{engine, allowMint}
}

func parseAsset(req *http.Request) (pool.Asset, error) {
	switch a := pool.Asset(mux.Vars(req)["asset"]); a {
	case pool.StakeAsset, pool.RewardAsset:
		return a, nil
	default:
		return "", utils.NotFound(fmt.Errorf("asset %q not found", a))
	}
}

func (a *Assets) getBalance(asset pool.Asset, addr types.Address) (*Balance, error) {
	bal, err := a.engine.Balance(asset, addr)
	if err != nil {
		return nil, err
	}
	return &Balance{
		Asset:   asset,
		Address: addr,
		Balance: (*math.HexOrDecimal256)(bal),
	}, nil
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	asset, err := parseAsset(req)
	if err != nil {
		return err
	}
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	bal, err := a.getBalance(asset, addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, bal)
}

func (a *Assets) handleMint(w http.ResponseWriter, req *http.Request) error {
	asset, err := parseAsset(req)
	if err != nil {
		return err
	}
	var body MintRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("body: amount required"))
	}
	if err := a.engine.Mint(asset, body.To, (*big.Int)(body.Amount)); err != nil {
		return err
	}
	bal, err := a.getBalance(asset, body.To)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, bal)
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}/{address}").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))

	if a.allowMint {
		sub.Path("/{asset}/mint").
			Methods(http.MethodPost).
			Name("POST /assets/{asset}/mint").
			HandlerFunc(utils.WrapHandlerFunc(a.handleMint))
	}
}
