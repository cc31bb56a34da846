// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/api/utils"
	"github.com/vechain/tierstake/pool"
)

// Pool serves the pool wide readouts and the owner controls.
type Pool struct {
	engine *pool.Engine
}

func New(engine *pool.Engine) *Pool {
	return &Pool{engine}
}

func (p *Pool) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	cfg, err := p.engine.Config()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, cfg)
}

func (p *Pool) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	status, err := p.engine.Status()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStatus(status))
}

func (p *Pool) handleGetClock(w http.ResponseWriter, req *http.Request) error {
	t, err := utils.Uint64Query(req, "time", p.engine.Now())
	if err != nil {
		return err
	}
	view, err := p.engine.ClockAt(t)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Clock{
		Time:   view.Time,
		Period: view.Period,
		Start:  view.Start,
		End:    view.End,
	})
}

func (p *Pool) handleGetTier(w http.ResponseWriter, req *http.Request) error {
	if req.URL.Query().Get("duration") == "" {
		return utils.BadRequest(errors.New("duration: required"))
	}
	duration, err := utils.Uint64Query(req, "duration", 0)
	if err != nil {
		return err
	}
	tier, err := p.engine.TierFor(duration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Tier{Duration: duration, Tier: tier})
}

func (p *Pool) handleGetPeriod(w http.ResponseWriter, req *http.Request) error {
	index, err := utils.Uint64Var(req, "index")
	if err != nil {
		return err
	}
	view, err := p.engine.Period(index)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPeriod(view))
}

func (p *Pool) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body PauseRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.engine.SetPaused(body.Caller, body.Paused); err != nil {
		return err
	}
	return p.handleGetStatus(w, req)
}

func (p *Pool) handleTransferOwnership(w http.ResponseWriter, req *http.Request) error {
	var body OwnerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.engine.TransferOwnership(body.Caller, body.Owner); err != nil {
		return err
	}
	return p.handleGetStatus(w, req)
}

func (p *Pool) handleUpdateConfig(w http.ResponseWriter, req *http.Request) error {
	var body ConfigRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.engine.UpdateConfig(body.Caller, &body.Update); err != nil {
		return err
	}
	return p.handleGetConfig(w, req)
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /pool/config").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetConfig))
	sub.Path("/config").
		Methods(http.MethodPost).
		Name("POST /pool/config").
		HandlerFunc(utils.WrapHandlerFunc(p.handleUpdateConfig))
	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /pool/status").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetStatus))
	sub.Path("/clock").
		Methods(http.MethodGet).
		Name("GET /pool/clock").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetClock))
	sub.Path("/tier").
		Methods(http.MethodGet).
		Name("GET /pool/tier").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetTier))
	sub.Path("/periods/{index}").
		Methods(http.MethodGet).
		Name("GET /pool/periods/{index}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPeriod))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /pool/pause").
		HandlerFunc(utils.WrapHandlerFunc(p.handlePause))
	sub.Path("/owner").
		Methods(http.MethodPost).
		Name("POST /pool/owner").
		HandlerFunc(utils.WrapHandlerFunc(p.handleTransferOwnership))
}
