package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/laberr/internal/core"
	"github.com/JonMunkholm/laberr/internal/logging"
	"github.com/JonMunkholm/laberr/internal/proposal"
	"github.com/JonMunkholm/laberr/internal/web/templates"
	"github.com/a-h/templ"
)

// Search outcomes recorded in metrics.
const (
	outcomeMatch   = "match"
	outcomeNoMatch = "no_match"
	outcomeError   = "error"
)

// handleIndex renders the lookup page.
//
// Query parameters: by (search dimension), value (selected value),
// search=1 (run the lookup) and propose=1 (show the proposal form).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := s.pageData(q)
	data.ShowProposal = q.Get("propose") == "1"

	if data.LoadError == nil && data.Search.OptionsError == nil && q.Get("search") == "1" {
		s.runSearch(r, &data)
	}

	s.render(w, r, http.StatusOK, templates.Page(data))
}

// pageData builds the page state shared by every page response: the
// catalog status and the two select inputs.
func (s *Server) pageData(q url.Values) templates.PageData {
	data := templates.PageData{ProposalEnabled: s.proposals.Enabled()}

	if err := s.service.LoadErr(); err != nil {
		data.LoadError = alertFor(templates.AlertError, err)
		return data
	}

	dims := core.SearchDimensions()
	dim := core.Column(q.Get("by"))
	if !core.IsSearchDimension(dim) {
		dim = dims[0]
	}
	data.Search = templates.SearchForm{Dimensions: dims, Dimension: dim}

	values, err := s.service.Values(dim)
	if err != nil {
		alert := alertFor(templates.AlertError, err)
		if errors.Is(err, core.ErrEmptyOptions) {
			alert.Message = fmt.Sprintf("No data found for the column '%s'.", dim)
		}
		data.Search.OptionsError = alert
		return data
	}
	data.Search.Values = values

	// Like any select, the first option is chosen until the user picks one.
	data.Search.Value = q.Get("value")
	if data.Search.Value == "" {
		data.Search.Value = values[0]
	}
	return data
}

// runSearch performs the lookup for the selected value and fills in
// either the result card or the alert that replaces it.
func (s *Server) runSearch(r *http.Request, data *templates.PageData) {
	dim, value := data.Search.Dimension, data.Search.Value
	logger := logging.WithFields(r.Context(), "dimension", dim, "value", value)

	res, err := s.service.Search(dim, value)
	switch {
	case err != nil:
		s.recordSearch(dim, outcomeError)
		logger.Error("search failed", "error", err)
		data.ResultAlert = alertFor(templates.AlertError, err)
	case res.Empty():
		s.recordSearch(dim, outcomeNoMatch)
		logger.Debug("search matched nothing")
		data.ResultAlert = alertFor(templates.AlertWarning, core.ErrNoMatch)
	default:
		s.recordSearch(dim, outcomeMatch)
		logger.Debug("search matched", "records", len(res.Records))
		data.Result = &templates.CardData{Title: value, Records: res.Fields}
	}
}

func (s *Server) recordSearch(dim core.Column, outcome string) {
	if s.metrics != nil {
		s.metrics.Search(string(dim), outcome)
	}
}

// handleProposal accepts the proposal form and hands it to the forwarder.
// Browsers get the page back with a confirmation or with their input and
// the problem; API clients get JSON.
func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse proposal form: %w", err), http.StatusBadRequest)
		return
	}

	p := proposal.FromForm(r.PostForm).Normalize()
	ctx := WithRequestMetadata(r.Context(), r)
	id, err := s.proposals.Submit(ctx, p)

	if wantsJSON(r) {
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": "accepted"})
		return
	}

	data := s.pageData(r.URL.Query())
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		logging.FromContext(r.Context()).Warn("proposal not accepted", "error", err, "status", status)
		data.ProposalAlert = alertFor(templates.AlertError, err)
		data.ShowProposal = true
		data.Proposal = templates.ProposalForm{
			LabErrorType:      p.LabErrorType,
			EffectTestResults: p.EffectTestResults,
			AffectedAnalyte:   p.AffectedAnalyte,
			Reference:         p.Reference,
		}
	} else {
		data.ProposalAlert = &templates.Alert{
			Kind:    templates.AlertSuccess,
			Message: "Thank you! Your proposal has been submitted for review.",
		}
	}

	s.render(w, r, status, templates.Page(data))
}

// handleStatus returns the catalog status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

// handleDimensions lists the columns a lookup can be keyed by.
func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]core.Column{"dimensions": core.SearchDimensions()})
}

// handleValues returns the selectable values for ?by=.
func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	dim := core.Column(r.URL.Query().Get("by"))

	values, err := s.service.Values(dim)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dimension": dim,
		"values":    values,
	})
}

// handleSearch returns the records matching ?by=&value=.
// No matches is a 200 with an empty list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dim := core.Column(q.Get("by"))
	value := q.Get("value")
	if value == "" {
		writeError(w, http.StatusBadRequest, "missing value parameter")
		return
	}

	res, err := s.service.Search(dim, value)
	if err != nil {
		s.recordSearch(dim, outcomeError)
		s.respondError(w, r, err, statusFor(err))
		return
	}

	if res.Empty() {
		s.recordSearch(dim, outcomeNoMatch)
	} else {
		s.recordSearch(dim, outcomeMatch)
	}
	writeJSON(w, http.StatusOK, res)
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status   string         `json:"status"`
	Catalog  core.Status    `json:"catalog"`
	Proposal ProposalHealth `json:"proposal"`
}

// ProposalHealth reports the state of proposal forwarding.
type ProposalHealth struct {
	Enabled bool   `json:"enabled"`
	Pending int    `json:"pending"`
	Breaker string `json:"breaker"`
}

// handleHealth reports ok when the catalog is loaded. A missing catalog
// returns 503 so orchestrators can flag the deployment.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Catalog: s.service.Status(),
		Proposal: ProposalHealth{
			Enabled: s.proposals.Enabled(),
			Pending: s.proposals.Pending(),
			Breaker: s.proposals.BreakerState(),
		},
	}

	status := http.StatusOK
	if !resp.Catalog.Loaded {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// render writes an HTML component with the given status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}
