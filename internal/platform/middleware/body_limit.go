package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// BodyLimit rejects requests whose body exceeds maxBytes with 413. A declared
// Content-Length is checked up front; chunked bodies are capped while read.
func BodyLimit(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if cl := req.Header.Get(echo.HeaderContentLength); cl != "" {
				n, err := strconv.ParseInt(cl, 10, 64)
				if err == nil && n > maxBytes {
					return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
				}
			}

			req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBytes)
			return next(c)
		}
	}
}
