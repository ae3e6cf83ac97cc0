package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	rid := rec.Header().Get(RequestIDHeader)
	if rid == "" {
		t.Fatal("no request id in response")
	}
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("generated id %q is not a uuid", rid)
	}
	if got := c.Get("request_id"); got != rid {
		t.Errorf("context request_id = %v, header = %s", got, rid)
	}
}

func TestRequestID_Preserved(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "caller-supplied-id" {
		t.Errorf("request id = %q, want caller's", got)
	}
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	logger := zerolog.Nop()
	err := Recovery(logger)(func(c echo.Context) error {
		panic("boom")
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Fatalf("err = %v, want 500", err)
	}
}

func TestRateLimit_Exhaustion(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		lastErr = mw(okHandler)(e.NewContext(req, rec))
	}

	var he *echo.HTTPError
	if !errors.As(lastErr, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want 429 after burst exhausted", lastErr)
	}
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if err := mw(okHandler)(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("first client: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	if err := mw(okHandler)(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("second client should have its own bucket: %v", err)
	}
}

func TestBodyLimit_DeclaredTooLarge(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	req.Header.Set(echo.HeaderContentLength, "64")
	c := e.NewContext(req, httptest.NewRecorder())

	err := BodyLimit(16)(okHandler)(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("err = %v, want 413", err)
	}
}

func TestBodyLimit_WithinLimit(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
	c := e.NewContext(req, httptest.NewRecorder())

	if err := BodyLimit(1024)(okHandler)(c); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}

func TestRequestTimeout_SlowHandler(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
		case <-time.After(5 * time.Second):
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestRequestTimeout_LateWritesDropped(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	wrote := make(chan error, 1)
	err := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		// keep writing after the deadline; none of it may reach the client
		_, werr := c.Response().Write([]byte("late partial body"))
		wrote <- werr
		return nil
	})(c)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	if werr := <-wrote; werr == nil {
		t.Error("late write succeeded, want it rejected")
	}

	var body map[string]string
	if derr := json.Unmarshal(rec.Body.Bytes(), &body); derr != nil {
		t.Fatalf("timeout body corrupted: %v: %q", derr, rec.Body.String())
	}
	if body["detail"] == "" {
		t.Errorf("body = %q, want timeout detail", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "late partial body") {
		t.Error("handler bytes leaked into timeout response")
	}
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := RequestTimeout(time.Second)(okHandler)(c); err != nil {
		t.Fatalf("err = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
