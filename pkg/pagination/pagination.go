package pagination

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Skip  int
	Limit int
}

// FromContext extracts skip/limit from the echo context. Absent params take
// the defaults (skip 0, limit DefaultLimit); present params outside the
// documented ranges (skip >= 0, limit 1..MaxLimit) are an error, not clamped.
func FromContext(c echo.Context) (Params, error) {
	p := Params{Skip: 0, Limit: DefaultLimit}

	if raw := c.QueryParam("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Params{}, fmt.Errorf("skip must be an integer >= 0, got %q", raw)
		}
		p.Skip = n
	}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLimit {
			return Params{}, fmt.Errorf("limit must be an integer between 1 and %d, got %q", MaxLimit, raw)
		}
		p.Limit = n
	}

	return p, nil
}

// Page returns the 1-based page number implied by skip and limit.
func (p Params) Page() int {
	return p.Skip/p.Limit + 1
}

// Response wraps a paginated API response with page metadata.
type Response struct {
	Items      interface{} `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewResponse builds the list envelope. TotalPages is ceil(total/limit).
func NewResponse(items interface{}, total int, p Params) *Response {
	totalPages := (total + p.Limit - 1) / p.Limit
	return &Response{
		Items:      items,
		Total:      total,
		Page:       p.Page(),
		PageSize:   p.Limit,
		TotalPages: totalPages,
	}
}
