package middlewares

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cotato/auth-service/internal/observability/logger"
)

// statusRecorder captures the status code and bytes written.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.status = http.StatusOK
		s.wroteHeader = true
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithLogging logs every request and injects a request-scoped logger
// into the context so handlers and services inherit request_id, method
// and path without re-tagging.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rid := w.Header().Get("X-Request-ID")
			if rid == "" {
				rid = GetRequestID(r.Context())
			}

			reqLog := logger.L().With(
				logger.RequestID(rid),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)

			ctx := logger.ToContext(r.Context(), reqLog)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			reqLog.Info("request completed",
				logger.Status(rec.status),
				logger.Duration(time.Since(start)),
				logger.ClientIP(clientIP(r)),
			)
		})
	}
}
