package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/risk"
)

type alertsResponse struct {
	Alerts  []risk.Alert     `json:"alerts"`
	Counts  risk.AlertCounts `json:"counts"`
	Metrics []risk.Metrics   `json:"metrics,omitempty"`
}

func parseSeverity(r *http.Request) (risk.Severity, error) {
	sev := risk.Severity(r.URL.Query().Get("severity"))
	switch sev {
	case "":
		return risk.SeverityAll, nil
	case risk.SeverityAll, risk.Red, risk.Amber:
		return sev, nil
	default:
		return sev, errInvalidParameter("severity", fmt.Errorf("%q is not one of all, red, amber", sev))
	}
}

// respondAlerts evaluates metrics and writes the alerts of the requested
// severity. Counts always cover every alert raised.
func (s *Server) respondAlerts(w http.ResponseWriter, r *http.Request, sev risk.Severity, in []risk.Metrics, echo bool) {
	alerts := s.evaluator.Evaluate(in)
	for _, a := range alerts {
		s.metrics.alerts.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
	s.logger.Debug("risk alerts evaluated",
		zap.Int("students", len(in)),
		zap.Int("alerts", len(alerts)),
	)

	resp := alertsResponse{
		Alerts: risk.FilterBySeverity(alerts, sev),
		Counts: risk.Counts(alerts),
	}
	if echo {
		resp.Metrics = in
	}
	render.JSON(w, r, resp)
}

// riskAlerts handles POST /api/admin/risk-alerts with a body of
// precomputed per-student metrics.
func (s *Server) riskAlerts(w http.ResponseWriter, r *http.Request) {
	sev, err := parseSeverity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var in []risk.Metrics
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		s.fail(w, r, errInvalidBody(err))
		return
	}
	s.respondAlerts(w, r, sev, in, false)
}

// studentRiskAlerts handles POST /api/admin/students/risk-alerts. The body
// lists students and balances; their metrics are built from the journal.
func (s *Server) studentRiskAlerts(w http.ResponseWriter, r *http.Request) {
	sev, err := parseSeverity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var students []risk.Student
	if err := render.DecodeJSON(r.Body, &students); err != nil {
		s.fail(w, r, errInvalidBody(err))
		return
	}

	now := s.now()
	in := make([]risk.Metrics, 0, len(students))
	for _, st := range students {
		trades, err := s.repo.ListByUser(r.Context(), st.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		in = append(in, risk.MetricsFromTrades(st, trades, now))
	}
	s.respondAlerts(w, r, sev, in, true)
}
