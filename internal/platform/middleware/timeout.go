package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// timeoutWriter buffers the handler's response until the handler finishes.
// Once the deadline fires the buffer is discarded and further handler writes
// become no-ops, so the client sees either the handler's response or the
// timeout response, never an interleaving of both.
type timeoutWriter struct {
	mu          sync.Mutex
	dst         http.ResponseWriter
	header      http.Header
	buf         bytes.Buffer
	code        int
	wroteHeader bool
	dead        bool
}

func newTimeoutWriter(dst http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{dst: dst, header: make(http.Header)}
}

func (tw *timeoutWriter) Header() http.Header { return tw.header }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.dead || tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	tw.code = code
}

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.dead {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.code = http.StatusOK
	}
	return tw.buf.Write(p)
}

// flush copies the buffered response to the real writer. No-op after timeout.
func (tw *timeoutWriter) flush() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.dead {
		return
	}
	tw.dead = true
	dst := tw.dst.Header()
	for k, vv := range tw.header {
		dst[k] = vv
	}
	code := tw.code
	if code == 0 {
		code = http.StatusOK
	}
	tw.dst.WriteHeader(code)
	_, _ = tw.dst.Write(tw.buf.Bytes())
}

// timeout discards the buffer and sends the 504 to the real writer.
func (tw *timeoutWriter) timeout() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.dead {
		return
	}
	tw.dead = true
	tw.dst.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	tw.dst.WriteHeader(http.StatusGatewayTimeout)
	_ = json.NewEncoder(tw.dst).Encode(map[string]string{
		"detail": "request processing exceeded the allowed time limit",
	})
}

// abort discards the buffer without writing anything, for cancelled requests.
func (tw *timeoutWriter) abort() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.dead = true
}

// RequestTimeout sets a context deadline on each incoming request and buffers
// the handler's output until it completes. If the deadline is exceeded first,
// a 504 is returned and anything the handler writes afterwards is dropped.
// Handlers that legitimately need longer can derive their own context from
// the request context.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			tw := newTimeoutWriter(c.Response().Writer)
			c.Response().Writer = tw

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				if err != nil {
					// The error handler writes the response itself.
					tw.abort()
					c.Response().Writer = tw.dst
					return err
				}
				tw.flush()
				return nil
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					tw.timeout()
					return nil
				}
				tw.abort()
				return ctx.Err()
			}
		}
	}
}
