// Package server exposes the journal, the statistics views and the risk
// alerts over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

type Server struct {
	repo      journal.Repository
	logger    *zap.Logger
	cache     *statsCache // nil when caching is off
	evaluator *risk.Evaluator
	limiter   *rate.Limiter // nil when rate limiting is off
	registry  *prometheus.Registry
	metrics   *httpMetrics
	topN      int
	cfg       config.ServerConfig

	// now is the clock used for default date ranges and alert timestamps.
	now func() time.Time
}

// New wires a Server around repo. The server does not own repo.
func New(cfg *config.Config, repo journal.Repository, logger *zap.Logger) (*Server, error) {
	s := &Server{
		repo:      repo,
		logger:    logger.With(zap.String("component", "server")),
		evaluator: risk.NewEvaluator(cfg.Risk),
		registry:  prometheus.NewRegistry(),
		topN:      cfg.Stats.TopSymbols,
		cfg:       cfg.Server,
		now:       time.Now,
	}
	s.evaluator.Clock = func() time.Time { return s.now() }
	s.metrics = newHTTPMetrics(s.registry)

	if cfg.Server.CacheTTL > 0 {
		c, err := newStatsCache(cfg.Server.CacheMaxCost, cfg.Server.CacheTTL)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	if cfg.Server.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)
	}
	return s, nil
}

// Routes returns the full HTTP handler.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/trades", s.listTrades)
			r.Post("/trades", s.createTrade)
			r.Get("/trades/{tradeID}", s.getTrade)
			r.Put("/trades/{tradeID}", s.updateTrade)
			r.Delete("/trades/{tradeID}", s.deleteTrade)

			r.Get("/stats", s.getStats)
			r.Get("/calendar", s.getCalendar)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/risk-alerts", s.riskAlerts)
			r.Post("/students/risk-alerts", s.studentRiskAlerts)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down within
// the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutCtx)
	if s.cache != nil {
		s.cache.Close()
	}
	s.logger.Info("shutdown complete")
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http_request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("ip", r.RemoteAddr),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.fail(w, r, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// fail logs err and writes its API form.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("error_code", apiErr.ErrorCode),
		zap.Error(err),
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	_ = render.Render(w, r, apiErr)
}
