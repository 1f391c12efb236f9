package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

// Stats are process-lifetime counters reported by /healthz.
type Stats struct {
	Started     time.Time
	Requests    atomic.Int64
	ServerError atomic.Int64
	SignIns     atomic.Int64
	SignUps     atomic.Int64
	Analyses    atomic.Int64
}

func NewStats() *Stats {
	return &Stats{Started: time.Now()}
}

type ctxKey struct{}

type requestInfo struct {
	id  string
	log *slog.Logger
}

// requestLog returns the request-scoped logger, or fallback outside
// the middleware.
func requestLog(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if info, ok := r.Context().Value(ctxKey{}).(requestInfo); ok {
		return info.log
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// Logging assigns a request id, counts the request and logs its outcome.
func Logging(app *App, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		log := app.Log.With("request_id", id)

		w.Header().Set(RequestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w}
		ctx := context.WithValue(r.Context(), ctxKey{}, requestInfo{id: id, log: log})

		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		app.Stats.Requests.Inc()
		if rec.status >= http.StatusInternalServerError {
			app.Stats.ServerError.Inc()
		}
		log.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start).String(),
		)
	})
}

type health struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Users       int    `json:"users"`
	Requests    int64  `json:"requests"`
	ServerError int64  `json:"server_errors"`
	SignIns     int64  `json:"sign_ins"`
	SignUps     int64  `json:"sign_ups"`
	Analyses    int64  `json:"analyses"`
}

// HealthHandler reports liveness and the request counters.
func HealthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodGet) {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(health{
			Status:      "ok",
			Uptime:      time.Since(app.Stats.Started).Round(time.Second).String(),
			Users:       app.Users.Len(),
			Requests:    app.Stats.Requests.Load(),
			ServerError: app.Stats.ServerError.Load(),
			SignIns:     app.Stats.SignIns.Load(),
			SignUps:     app.Stats.SignUps.Load(),
			Analyses:    app.Stats.Analyses.Load(),
		})
	}
}
