package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"staybook-backend/internal/config"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/metrics"
	"staybook-backend/internal/security"
)

// AuthMiddleware authenticates requests according to the security level of
// the matched route.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthenticated", "authorization token is not provided")
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "unauthenticated", "invalid token: "+err.Error())
			return
		}

		actor := claims.Actor()
		if level == config.SecurityStaff && !actor.Role.IsStaff() {
			writeMessage(w, http.StatusForbidden, "forbidden", "staff role required")
			return
		}

		ctx := logger.WithAttrs(WithActor(r.Context(), actor), "actor_id", actor.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, bool) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return token, token != ""
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags the request context and the response with a
// request id, reusing the caller's when it sends one.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithAttrs(r.Context(), "request_id", id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware counts requests per route and status class and logs
// server errors.
func MetricsMiddleware(m *metrics.ReservationMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := routeName(r)
			m.ObserveHTTPRequest(route, strconv.Itoa(rec.status/100)+"xx")
			if rec.status >= http.StatusInternalServerError {
				logger.ErrorContext(r.Context(), "Request failed", "route", route, "method", r.Method, "status", rec.status)
			}
		})
	}
}
