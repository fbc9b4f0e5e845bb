package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

type tradesResponse struct {
	Trades []journal.Trade `json:"trades"`
	Count  int             `json:"count"`
}

// listTrades handles GET /api/users/{userID}/trades. With start or end the
// list is narrowed to that range; status is open, closed or all.
func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	category, err := parseCategory(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	trades, err := s.repo.ListByUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	switch status := r.URL.Query().Get("status"); status {
	case "", "all":
	case "open":
		trades = journal.FilterPendingTrades(trades)
	case "closed":
		trades = journal.FilterCompletedTrades(trades)
	default:
		s.fail(w, r, errInvalidParameter("status", fmt.Errorf("%q is not one of open, closed, all", status)))
		return
	}

	q := r.URL.Query()
	if q.Get("start") != "" || q.Get("end") != "" {
		rng, err := parseRange(r, s.now())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		trades = metrics.FilterByRangeAndCategory(trades, rng, category)
	} else if category != metrics.CategoryTotal {
		filtered := make([]journal.Trade, 0, len(trades))
		for _, t := range trades {
			if category.Matches(t.AssetClass) {
				filtered = append(filtered, t)
			}
		}
		trades = filtered
	}

	render.JSON(w, r, tradesResponse{Trades: trades, Count: len(trades)})
}

// createTrade handles POST /api/users/{userID}/trades. The owner is taken
// from the path and an ID is assigned when the body has none.
func (s *Server) createTrade(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var t journal.Trade
	if err := render.DecodeJSON(r.Body, &t); err != nil {
		s.fail(w, r, errInvalidBody(err))
		return
	}
	t.UserID = userID
	if t.ID == "" {
		t.ID = id.New()
	}
	if err := journal.Validate(t); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.repo.Create(r.Context(), t); err != nil {
		s.fail(w, r, err)
		return
	}
	s.invalidate(userID)

	s.logger.Info("trade created",
		zap.String("trade_id", t.ID),
		zap.String("user_id", userID),
		zap.String("symbol", t.Symbol),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, t)
}

// loadTrade fetches the trade named in the path, treating another user's
// trade as missing.
func (s *Server) loadTrade(r *http.Request) (journal.Trade, error) {
	userID := chi.URLParam(r, "userID")
	tradeID := chi.URLParam(r, "tradeID")

	t, err := s.repo.Get(r.Context(), tradeID)
	if err != nil {
		return journal.Trade{}, err
	}
	if t.UserID != userID {
		return journal.Trade{}, fmt.Errorf("trade %q of another user: %w", tradeID, journal.ErrTradeNotFound)
	}
	return t, nil
}

func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTrade(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, t)
}

func (s *Server) updateTrade(w http.ResponseWriter, r *http.Request) {
	existing, err := s.loadTrade(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var t journal.Trade
	if err := render.DecodeJSON(r.Body, &t); err != nil {
		s.fail(w, r, errInvalidBody(err))
		return
	}
	t.ID = existing.ID
	t.UserID = existing.UserID
	if err := journal.Validate(t); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.repo.Update(r.Context(), t); err != nil {
		s.fail(w, r, err)
		return
	}
	s.invalidate(t.UserID)
	render.JSON(w, r, t)
}

func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTrade(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.Delete(r.Context(), t.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.invalidate(t.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) invalidate(userID string) {
	if s.cache != nil {
		s.cache.Invalidate(userID)
	}
}
