package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"swiftcart-backend/pkg/api"
)

// timedWriter serializes access to the underlying ResponseWriter between
// the handler goroutine and the timeout path. Once the timeout response has
// been sent, handler writes are dropped.
type timedWriter struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	timedOut    bool
	wroteHeader bool
}

func (t *timedWriter) Header() http.Header {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Header()
}

func (t *timedWriter) Write(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timedOut {
		return len(b), nil
	}
	t.wroteHeader = true
	return t.w.Write(b)
}

func (t *timedWriter) WriteHeader(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timedOut || t.wroteHeader {
		return
	}
	t.wroteHeader = true
	t.w.WriteHeader(code)
}

// timeoutResponse sends the 408 unless the handler already started its
// response. Returns whether the handler may still write.
func (t *timedWriter) timeoutResponse() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.wroteHeader {
		return
	}
	t.timedOut = true
	api.Error(t.w, http.StatusRequestTimeout, "Request Timeout")
}

// Timeout bounds request handling. When the deadline passes before the
// handler finishes, the client gets a 408, the handler's context is
// canceled, and any late handler output is discarded.
func Timeout(timeout time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			r = r.WithContext(ctx)
			tw := &timedWriter{w: w}

			go func() {
				defer close(done)
				defer func() {
					if err := recover(); err != nil {
						logger.Error("panic in timed handler",
							zap.Any("panic", err),
							zap.String("requestId", GetRequestIDFromRequest(r)))
						api.Error(tw, http.StatusInternalServerError, "Internal Server Error")
					}
				}()

				next.ServeHTTP(tw, r)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("request timed out",
					zap.String("requestId", GetRequestIDFromRequest(r)),
					zap.String("path", r.URL.Path))
				tw.timeoutResponse()
			}
		})
	}
}
