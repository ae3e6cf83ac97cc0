package condition

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type mockRepo struct {
	byID   map[uuid.UUID]*MedicalCondition
	byName map[string]*MedicalCondition
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:   make(map[uuid.UUID]*MedicalCondition),
		byName: make(map[string]*MedicalCondition),
	}
}

func (m *mockRepo) add(mc *MedicalCondition) {
	m.byID[mc.ID] = mc
	m.byName[mc.Name] = mc
}

func (m *mockRepo) Create(ctx context.Context, mc *MedicalCondition) error {
	if _, exists := m.byName[mc.Name]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "medical_condition_name_key"}
	}
	mc.ID = uuid.New()
	m.add(mc)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*MedicalCondition, error) {
	if mc, ok := m.byID[id]; ok {
		return mc, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) Update(ctx context.Context, mc *MedicalCondition) error {
	if other, ok := m.byName[mc.Name]; ok && other.ID != mc.ID {
		return &pgconn.PgError{Code: "23505", ConstraintName: "medical_condition_name_key"}
	}
	m.add(mc)
	return nil
}

func (m *mockRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	mc, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	mc.IsActive = false
	return nil
}

func (m *mockRepo) List(ctx context.Context, isActive *bool, limit, offset int) ([]*MedicalCondition, int, error) {
	var out []*MedicalCondition
	for _, mc := range m.byID {
		if isActive == nil || mc.IsActive == *isActive {
			out = append(out, mc)
		}
	}
	return out, len(out), nil
}

func strPtr(s string) *string { return &s }

func TestServiceCreate(t *testing.T) {
	svc := NewService(newMockRepo())

	mc, err := svc.Create(context.Background(), &CreateRequest{
		Name:         "Chronic Kidney Disease",
		Abbreviation: strPtr("CKD"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !mc.IsActive {
		t.Error("new condition should be active")
	}
}

func TestServiceCreate_NameTaken(t *testing.T) {
	svc := NewService(newMockRepo())

	req := &CreateRequest{Name: "Chronic Kidney Disease"}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}
}

func TestServiceUpdate_RenameCollision(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	a, _ := svc.Create(context.Background(), &CreateRequest{Name: "Diabetes"})
	if _, err := svc.Create(context.Background(), &CreateRequest{Name: "Hypertension"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Update(context.Background(), a.ID, &UpdateRequest{Name: strPtr("Hypertension")})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}
}

func TestServiceDelete_SoftDeleteKeepsReferences(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	mc, _ := svc.Create(context.Background(), &CreateRequest{Name: "Diabetes"})

	if err := svc.Delete(context.Background(), mc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := svc.Get(context.Background(), mc.ID)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if got.IsActive {
		t.Error("deleted condition should be inactive")
	}
}

func TestServiceGet_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
