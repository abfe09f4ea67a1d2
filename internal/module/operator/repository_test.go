package operator

import (
	"context"
	"testing"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/testutil"
)

func TestRepository_CreateAndGetByEmail(t *testing.T) {
	repo := NewOperatorRepository(testutil.NewSQLiteDB(t, &domain.Operator{}))
	ctx := context.Background()

	op := &domain.Operator{Name: "Admin", Email: "admin@example.com", Role: domain.RolePrincipal, PasswordHash: "x"}
	if err := repo.Create(ctx, op); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByEmail(ctx, " ADMIN@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != op.ID {
		t.Errorf("got ID %d; want %d", got.ID, op.ID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRepository_DuplicateEmail(t *testing.T) {
	repo := NewOperatorRepository(testutil.NewSQLiteDB(t, &domain.Operator{}))
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Operator{Name: "A", Email: "a@example.com", Role: domain.RolePrincipal}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, &domain.Operator{Name: "B", Email: "a@example.com", Role: domain.RolePrincipal})
	if !domain.IsAlreadyExists(err) {
		t.Errorf("expected already exists, got %v", err)
	}
}

func TestRepository_ListFiltersByRole(t *testing.T) {
	repo := NewOperatorRepository(testutil.NewSQLiteDB(t, &domain.Operator{}))
	ctx := context.Background()

	co := uint(4)
	for _, op := range []*domain.Operator{
		{Name: "Admin", Email: "admin@example.com", Role: domain.RolePrincipal},
		{Name: "Sari", Email: "sari@example.com", Role: domain.RoleCO, COAccountID: &co},
		{Name: "Tono", Email: "tono@example.com", Role: domain.RoleCO, COAccountID: &co},
	} {
		if err := repo.Create(ctx, op); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	res, err := repo.List(ctx, domain.PageRequest{Page: 1, PageSize: 10, Sort: "name:desc", Filter: map[string]string{"role": "co"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 2 || res.Items[0].Name != "Tono" {
		t.Errorf("got total=%d items=%+v", res.Total, res.Items)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewOperatorRepository(testutil.NewSQLiteDB(t, &domain.Operator{}))
	ctx := context.Background()

	op := &domain.Operator{Name: "Admin", Email: "admin@example.com", Role: domain.RolePrincipal}
	if err := repo.Create(ctx, op); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, op.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, op.ID); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
