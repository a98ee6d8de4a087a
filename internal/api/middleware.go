package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/logger"
)

const requestIDHeader = "X-Request-ID"

type contextKey string

const userIDContextKey contextKey = "user_id"

func userIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDContextKey).(string); ok {
		return v
	}
	return ""
}

// statusRecorder remembers what a handler wrote for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.written += n
	return n, err
}

func newRequestID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// requestLogMiddleware tags the request with an id, stores a request-scoped
// logger in the context and writes one access line per request.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set(requestIDHeader, id)

		log := logger.Default().WithFields(map[string]any{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.NewContext(r.Context(), log)))

		log = log.WithFields(map[string]any{
			"status":      rec.status,
			"bytes":       rec.written,
			"duration_ms": time.Since(started).Milliseconds(),
		})
		switch {
		case rec.status >= 500:
			log.Error("%s %s failed", r.Method, r.URL.Path)
		case rec.status >= 400:
			log.Warn("%s %s rejected", r.Method, r.URL.Path)
		default:
			log.Info("%s %s", r.Method, r.URL.Path)
		}
	})
}

// recoveryMiddleware turns a handler panic into an INTERNAL_ERROR response.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				handleError(w, r, errors.NewInternalError(fmt.Errorf("panic: %v", v)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func noSniffMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware answers 503 TIMEOUT once a request runs past limit. The
// handler's context is cancelled at the same moment.
func timeoutMiddleware(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		appErr := errors.NewTimeoutError(limit)
		body, _ := json.Marshal(map[string]any{
			"error": map[string]any{"code": appErr.Code, "message": appErr.Message},
		})
		guarded := http.TimeoutHandler(next, limit, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Handlers overwrite this on success; the timeout reply keeps it.
			w.Header().Set("Content-Type", "application/json")
			guarded.ServeHTTP(w, r)
		})
	}
}

// identityMiddleware reads the user id set by the upstream auth proxy. The
// value is trusted as given.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	header := s.UserIDHeader
	if header == "" {
		header = "X-User-ID"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(header))
		if userID == "" {
			handleError(w, r, errors.NewUnauthorizedError("missing "+header+" header"))
			return
		}
		log := logger.FromContext(r.Context()).WithField("user_id", userID)
		ctx := context.WithValue(logger.NewContext(r.Context(), log), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
