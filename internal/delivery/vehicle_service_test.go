package delivery

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

type fakeVehicleRepo struct {
	byID    map[uuid.UUID]*Vehicle
	byPlaca map[string]*Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{byID: map[uuid.UUID]*Vehicle{}, byPlaca: map[string]*Vehicle{}}
}

func (f *fakeVehicleRepo) Create(ctx context.Context, v *Vehicle) error {
	cp := *v
	f.byID[v.ID] = &cp
	f.byPlaca[v.Placa] = &cp
	return nil
}

func (f *fakeVehicleRepo) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVehicleRepo) GetByPlaca(ctx context.Context, placa string) (*Vehicle, error) {
	v, ok := f.byPlaca[placa]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVehicleRepo) Update(ctx context.Context, v *Vehicle) error {
	cp := *v
	f.byID[v.ID] = &cp
	f.byPlaca[v.Placa] = &cp
	return nil
}

func (f *fakeVehicleRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	v, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	v.IsActive = false
	return nil
}

func (f *fakeVehicleRepo) ListActive(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range f.byID {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	return out, nil
}

func TestVehicleService_Create_RejectsDuplicatePlaca(t *testing.T) {
	repo := newFakeVehicleRepo()
	s := NewVehicleService(repo)

	req := CreateVehicleRequest{Placa: "ABC123", DriverName: "Jose"}
	if _, err := s.Create(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on first create: %v", err)
	}

	_, err := s.Create(context.Background(), req)
	if errs.KindOf(err) != errs.ValidationRejected {
		t.Fatalf("expected ValidationRejected for duplicate placa, got %v", err)
	}
}

func TestVehicleService_Update_NotFound(t *testing.T) {
	repo := newFakeVehicleRepo()
	s := NewVehicleService(repo)

	_, err := s.Update(context.Background(), UpdateVehicleRequest{VehicleID: uuid.New()})
	if errs.KindOf(err) != errs.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestVehicleService_Update_PartialUpdateLeavesUnspecifiedFieldsUnchanged(t *testing.T) {
	repo := newFakeVehicleRepo()
	s := NewVehicleService(repo)

	phone := "3000000000"
	created, err := s.Create(context.Background(), CreateVehicleRequest{Placa: "XYZ987", DriverName: "Ana", DriverPhone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newName := "Maria"
	updated, err := s.Update(context.Background(), UpdateVehicleRequest{VehicleID: created.ID, DriverName: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DriverName != "Maria" {
		t.Errorf("driver name = %s, want Maria", updated.DriverName)
	}
	if updated.DriverPhone == nil || *updated.DriverPhone != phone {
		t.Errorf("driver phone should remain unchanged")
	}
}

func TestVehicleService_Delete_NotFound(t *testing.T) {
	repo := newFakeVehicleRepo()
	s := NewVehicleService(repo)

	err := s.Delete(context.Background(), uuid.New())
	if errs.KindOf(err) != errs.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestVehicleService_Delete_Deactivates(t *testing.T) {
	repo := newFakeVehicleRepo()
	s := NewVehicleService(repo)

	created, err := s.Create(context.Background(), CreateVehicleRequest{Placa: "DEF456", DriverName: "Luis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := s.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active vehicles after delete, got %d", len(active))
	}
}
