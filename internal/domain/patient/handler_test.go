package patient

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
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	body := `{
		"medical_condition_id": "` + f.cond.ID.String() + `",
		"first_contact_date": "2026-02-01",
		"person": {
			"first_name": "Ada",
			"last_name": "Obi",
			"email": "ada@example.com"
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != DefaultStatus {
		t.Errorf("status = %q", got.Status)
	}
	if got.FirstContactDate == nil || got.FirstContactDate.String() != "2026-02-01" {
		t.Errorf("first_contact_date = %v", got.FirstContactDate)
	}
	if got.Person == nil || got.Person.Email != "ada@example.com" {
		t.Errorf("person not embedded in response")
	}
}

func TestHandlerCreate_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	// missing person.email
	body := `{
		"medical_condition_id": "` + f.cond.ID.String() + `",
		"person": {"first_name": "Ada", "last_name": "Obi"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	if len(f.patients.byID) != 0 {
		t.Error("invalid request created a patient")
	}
}

func TestHandlerCreate_Conflict(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	body := `{
		"medical_condition_id": "` + f.cond.ID.String() + `",
		"person": {"first_name": "Ada", "last_name": "Obi", "email": "ada@example.com"}
	}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Create(c)
		switch want {
		case http.StatusCreated:
			if err != nil {
				t.Fatalf("attempt %d: %v", i, err)
			}
		default:
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != want {
				t.Fatalf("attempt %d: err = %v, want %d", i, err, want)
			}
		}
	}
}

func TestHandlerCreateWithPersonID_UnknownPerson(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	body := `{
		"medical_condition_id": "` + f.cond.ID.String() + `",
		"person_id": "` + uuid.NewString() + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/with-person-id", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.CreateWithPersonID(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestHandlerList_EmptyEnvelope(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}

	var envelope struct {
		Items      []json.RawMessage `json:"items"`
		Total      int               `json:"total"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		TotalPages int               `json:"total_pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Items == nil {
		t.Error("items should be [], not null")
	}
	if envelope.Total != 0 || envelope.TotalPages != 0 {
		t.Errorf("total = %d, total_pages = %d, want 0/0", envelope.Total, envelope.TotalPages)
	}
	if envelope.Page != 1 || envelope.PageSize != 100 {
		t.Errorf("page = %d, page_size = %d, want 1/100", envelope.Page, envelope.PageSize)
	}
}

func TestHandlerList_RejectsBadPaging(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	for _, query := range []string{"limit=0", "limit=5000", "skip=-1", "limit=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := h.List(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("%s: err = %v, want 400", query, err)
		}
	}
}

func TestHandlerGet_InvalidAndMissingID(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: err = %v, want 400", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	err = h.Get(c)
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("missing id: err = %v, want 404", err)
	}
}

func TestHandlerDelete(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := newEcho()

	pt := &Patient{ID: uuid.New(), PersonID: uuid.New(), MedicalConditionID: f.cond.ID, Status: DefaultStatus}
	f.patients.add(pt)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(pt.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
