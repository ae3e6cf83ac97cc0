package person

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/navcrm/navcrm/internal/platform/validation"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

func TestHandlerCreate(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := newEcho()

	body := `{"first_name": "Ada", "last_name": "Obi", "email": "ada@example.com", "phone": "+234801"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/persons", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got Person
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Email != "ada@example.com" || !got.IsActive {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestHandlerCreate_InvalidEmail(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := newEcho()

	body := `{"first_name": "Ada", "last_name": "Obi", "email": "not-an-email"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/persons", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestHandlerCreate_DuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo))
	e := newEcho()

	existing := &Person{ID: uuid.New(), FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", IsActive: true}
	repo.add(existing)

	body := `{"first_name": "Ada", "last_name": "Obi", "email": "ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/persons", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusConflict {
		t.Fatalf("err = %v, want 409", err)
	}
}

func TestHandlerList_FilterParsing(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo))
	e := newEcho()

	active := &Person{ID: uuid.New(), Email: "a@example.com", IsActive: true}
	inactive := &Person{ID: uuid.New(), Email: "b@example.com", IsActive: false}
	repo.add(active)
	repo.add(inactive)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/persons?is_active=true", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List: %v", err)
	}

	var got []*Person
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Email != "a@example.com" {
		t.Errorf("filtered list = %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/persons?is_active=banana", nil)
	err := h.List(e.NewContext(req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("bad filter err = %v, want 400", err)
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := newEcho()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}
