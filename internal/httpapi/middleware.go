package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pricofy/chunked-translator/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates or generates X-Request-ID and attaches a request
// scoped logger to the context
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequest(r.Context(), s.log, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// captureWriter wraps the original ResponseWriter and records status & bytes
type captureWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	if n > 0 {
		cw.bytes += n
	}
	return n, err
}

// accessLog logs method, path, status, elapsed, and bytes written
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(cw, r)

		log := logger.From(r.Context())
		evt := log.Info()
		if cw.status >= http.StatusInternalServerError {
			evt = log.Warn()
		}
		evt.Int("status", cw.status).
			Dur("elapsed", time.Since(start)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("bytes", cw.bytes).
			Msg("request done")
	})
}
