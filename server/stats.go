package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

type calendarResponse struct {
	Year    int                   `json:"year"`
	Month   int                   `json:"month"`
	Days    []metrics.CalendarDay `json:"days"`
	TotalPL float64               `json:"totalPnl"`
}

// cached serves view from the stats cache, computing it with build on a
// miss.
func (s *Server) cached(userID, view, query string, build func() (any, error)) (any, error) {
	if s.cache == nil {
		return build()
	}
	key := s.cache.key(userID, view, query)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.cache.WithLabelValues("hit").Inc()
		return v, nil
	}
	s.metrics.cache.WithLabelValues("miss").Inc()

	v, err := build()
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, v)
	return v, nil
}

// getStats handles GET /api/users/{userID}/stats. Open trades are left
// out unless pending=true.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rng, err := parseRange(r, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	category, err := parseCategory(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	top, err := parseInt(r, "top", s.topN)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if top <= 0 {
		s.fail(w, r, errInvalidParameter("top", fmt.Errorf("must be positive")))
		return
	}
	pending, err := parseBool(r, "pending")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	smooth, err := parseInt(r, "smooth", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if smooth < 0 {
		s.fail(w, r, errInvalidParameter("smooth", fmt.Errorf("must not be negative")))
		return
	}

	kind := metrics.SmoothKind(r.URL.Query().Get("smooth_kind"))
	if !kind.Valid() {
		s.fail(w, r, errInvalidParameter("smooth_kind", fmt.Errorf("%q is not one of sma, ema", kind)))
		return
	}

	q := metrics.Query{Range: rng, Category: category, Top: top, IncludePending: pending, Smooth: smooth, SmoothKind: kind}
	key := fmt.Sprintf("%s|%s|%s|%d|%t|%d|%s",
		rng.Start.Format(dates.ISODate), rng.End.Format(dates.ISODate), category, top, pending, smooth, kind)

	rep, err := s.cached(userID, "stats", key, func() (any, error) {
		trades, err := s.repo.ListByUser(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		return metrics.BuildReport(trades, q)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, rep)
}

// getCalendar handles GET /api/users/{userID}/calendar?year=&month=,
// defaulting to the current month. Only closed trades are counted.
func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	now := s.now().UTC()

	year, err := parseInt(r, "year", now.Year())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	month, err := parseInt(r, "month", int(now.Month()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if month < 1 || month > 12 {
		s.fail(w, r, errInvalidParameter("month", fmt.Errorf("%d is not between 1 and 12", month)))
		return
	}

	resp, err := s.cached(userID, "calendar", fmt.Sprintf("%d-%02d", year, month), func() (any, error) {
		trades, err := s.repo.ListByUser(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		days := metrics.CalendarMonth(journal.FilterCompletedTrades(trades), year, time.Month(month))
		var total float64
		for _, d := range days {
			total += d.PnL
		}
		return calendarResponse{Year: year, Month: month, Days: days, TotalPL: total}, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}
