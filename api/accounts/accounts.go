// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/api/utils"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

type Accounts struct {
	engine *pool.Engine
}

func New(engine *pool.Engine) *Accounts {
	return &Accounts{engine}
}

func (a *Accounts) getAccount(addr types.Address) (*Account, error) {
	view, err := a.engine.Account(addr)
	if err != nil {
		return nil, err
	}
	return convertAccount(view), nil
}

func (a *Accounts) writeReceipt(w http.ResponseWriter, addr types.Address, amount *big.Int) error {
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{
		Amount:  (*math.HexOrDecimal256)(amount),
		Account: acc,
	})
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetShares(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	period, err := utils.Uint64Var(req, "period")
	if err != nil {
		return err
	}
	shares, err := a.engine.Shares(period, addr)
	if err != nil {
		return err
	}
	out := make([]*math.HexOrDecimal256, len(shares))
	for i, s := range shares {
		out[i] = (*math.HexOrDecimal256)(s)
	}
	return utils.WriteJSON(w, out)
}

func (a *Accounts) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("body: amount required"))
	}
	amount := (*big.Int)(body.Amount)
	if err := a.engine.Stake(addr, body.Duration, amount); err != nil {
		return err
	}
	return a.writeReceipt(w, addr, amount)
}

func (a *Accounts) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("body: amount required"))
	}
	returned, err := a.engine.Unstake(addr, (*big.Int)(body.Amount))
	if err != nil {
		return err
	}
	return a.writeReceipt(w, addr, returned)
}

func (a *Accounts) handleRestake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body RestakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var amount *big.Int
	if body.Portion != nil {
		amount, err = a.engine.RestakePortion(addr, body.Duration, body.Count, (*big.Int)(body.Portion))
	} else {
		amount, err = a.engine.Restake(addr, body.Duration, body.Count)
	}
	if err != nil {
		return err
	}
	return a.writeReceipt(w, addr, amount)
}

func (a *Accounts) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	claimed, err := a.engine.Claim(addr)
	if err != nil {
		return err
	}
	return a.writeReceipt(w, addr, claimed)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/shares/{period}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/shares/{period}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetShares))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleStake))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUnstake))
	sub.Path("/{address}/restake").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/restake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleRestake))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/claim").
		HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
}
