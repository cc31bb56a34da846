// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

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

type FundRequest struct {
	Caller types.Address         `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Summary is the funding state of the pool.
type Summary struct {
	CurrentPeriod  uint64                `json:"currentPeriod"`
	FundedBoundary uint64                `json:"fundedBoundary"`
	RewardBalance  *math.HexOrDecimal256 `json:"rewardBalance"`
}

type Rewards struct {
	engine *pool.Engine
}

func New(engine *pool.Engine) *Rewards {
	return &Rewards{engine}
}

func (r *Rewards) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	status, err := r.engine.Status()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Summary{
		CurrentPeriod:  status.CurrentPeriod,
		FundedBoundary: status.FundedBoundary,
		RewardBalance:  (*math.HexOrDecimal256)(status.RewardBalance),
	})
}

func (r *Rewards) handleFund(w http.ResponseWriter, req *http.Request) error {
	var body FundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("body: amount required"))
	}
	if err := r.engine.Fund(body.Caller, (*big.Int)(body.Amount)); err != nil {
		return err
	}
	return r.handleGetSummary(w, req)
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /rewards").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetSummary))
	sub.Path("/fund").
		Methods(http.MethodPost).
		Name("POST /rewards/fund").
		HandlerFunc(utils.WrapHandlerFunc(r.handleFund))
}
