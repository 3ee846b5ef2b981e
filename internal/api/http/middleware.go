package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// callerID returns the authenticated caller injected by AuthMiddleware.
func callerID(r *http.Request) (int32, bool) {
	id, ok := r.Context().Value(userIDKey).(int32)
	return id, ok
}

// AuthMiddleware validates the bearer token and injects the resolved
// caller id into the request context. Handlers receive an explicit
// identity; no ambient session state is consulted downstream.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// ObservabilityMiddleware records request logs and prometheus metrics.
func ObservabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := time.Since(start)
		metrics.IncHTTP(route, strconv.Itoa(rec.status))
		metrics.ObserveHTTPDuration(route, elapsed.Seconds())
		logger.Debug("request handled", "method", r.Method, "route", route, "status", rec.status, "duration", elapsed)
	})
}
