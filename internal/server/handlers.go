package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/logger"
	"github.com/spigell/search-calculator/internal/report"
	"github.com/spigell/search-calculator/internal/share"
)

type scoreRequest struct {
	Request engine.JobRequest `json:"request"`
	Enrich  bool              `json:"enrich"`
}

type whatIfRequest struct {
	Request   engine.JobRequest `json:"request"`
	Overrides engine.Overrides  `json:"overrides"`
}

type whatIfResponse struct {
	Committed  engine.ScoreResult `json:"committed"`
	Projection engine.Projection  `json:"projection"`
}

type compareRequest struct {
	Request engine.JobRequest `json:"request"`
}

type roleEntry struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Corporate bool   `json:"corporate"`
}

type rolesResponse struct {
	Roles        []roleEntry                                 `json:"roles"`
	Timelines    []engine.Choice                             `json:"timelines"`
	Discretion   []engine.Choice                             `json:"discretion"`
	Travel       []engine.Choice                             `json:"travel"`
	BudgetRanges map[engine.BudgetScale][]engine.BudgetRange `json:"budgetRanges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	resp := rolesResponse{
		Roles:      []roleEntry{},
		Timelines:  engine.TimelineChoices(),
		Discretion: engine.DiscretionChoices(),
		Travel:     engine.TravelChoices(),
		BudgetRanges: map[engine.BudgetScale][]engine.BudgetRange{
			engine.ScaleHousehold: engine.BudgetRanges(engine.ScaleHousehold),
			engine.ScaleCorporate: engine.BudgetRanges(engine.ScaleCorporate),
			engine.ScalePortfolio: engine.BudgetRanges(engine.ScalePortfolio),
		},
	}

	if s.roles != nil {
		for _, name := range s.roles.Names() {
			entry := roleEntry{Name: name}
			if rec, ok := s.engine.Benchmark(name); ok {
				entry.Category = rec.Category
				entry.Corporate = rec.IsCorporate()
			}
			resp.Roles = append(resp.Roles, entry)
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var body scoreRequest
	if err := s.decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	rep, err := s.reports.Build(r.Context(), body.Request, report.Options{Enrich: body.Enrich})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	logger.WithFields(s.logger, logger.ReportFields(rep.ID, rep.Request.Role)...).Info("scored",
		zap.Int("score", rep.Result.Score),
		zap.Bool("ai", rep.AIAnalysisSuccess),
	)
	s.jsonResponse(w, http.StatusOK, rep)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	var body whatIfRequest
	if err := s.decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	committed := s.engine.Score(body.Request, nil)
	s.jsonResponse(w, http.StatusOK, whatIfResponse{
		Committed:  committed,
		Projection: s.engine.WhatIf(body.Request, committed, body.Overrides),
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body compareRequest
	if err := s.decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.engine.CompareBudgets(body.Request))
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	req, err := share.Decode(chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rep, err := s.reports.Build(r.Context(), req, report.Options{Shared: true})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rep)
}
