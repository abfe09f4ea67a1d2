package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/testutil"
)

func seedMembers(t *testing.T, repo domain.MemberRepository) {
	t.Helper()
	members := []domain.Member{
		{Name: "Alice", Email: "alice@example.com", Status: domain.StatusActive, COAccountID: 1, JoinedAt: day(2024, 1, 5)},
		{Name: "Bob", Email: "bob@example.com", Status: domain.StatusLocked, COAccountID: 1, JoinedAt: day(2024, 2, 10)},
		{Name: "Alicia", Email: "alicia@example.com", Status: domain.StatusActive, COAccountID: 2, JoinedAt: day(2024, 1, 31)},
	}
	for i := range members {
		if err := repo.Create(context.Background(), &members[i]); err != nil {
			t.Fatalf("seed %s: %v", members[i].Name, err)
		}
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateAndGetByID(t *testing.T) {
	repo := NewMemberRepository(testutil.NewSQLiteDB(t, &domain.Member{}))
	ctx := context.Background()

	m := &domain.Member{Name: "Alice", Email: "alice@example.com", Status: domain.StatusActive, COAccountID: 1}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("expected non-zero ID after Create")
	}

	got, err := repo.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alice" || got.COAccountID != 1 {
		t.Errorf("got %+v; want Name=Alice, COAccountID=1", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := NewMemberRepository(testutil.NewSQLiteDB(t, &domain.Member{}))

	_, err := repo.GetByID(context.Background(), 999)
	if !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := NewMemberRepository(testutil.NewSQLiteDB(t, &domain.Member{}))
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Member{Name: "A", Email: "dup@example.com", Status: domain.StatusActive}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := repo.Create(ctx, &domain.Member{Name: "B", Email: "dup@example.com", Status: domain.StatusActive})
	if !domain.IsAlreadyExists(err) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	repo := NewMemberRepository(testutil.NewSQLiteDB(t, &domain.Member{}))
	seedMembers(t, repo)

	tests := []struct {
		name   string
		filter map[string]string
		want   []string
	}{
		{"name like", map[string]string{"name__like": "Ali"}, []string{"Alice", "Alicia"}},
		{"status in", map[string]string{"status__in": "LOCKED"}, []string{"Bob"}},
		{"co account", map[string]string{"co_account_id": "2"}, []string{"Alicia"}},
		{"joined in january", map[string]string{"joined_at__gte": "2024-01-01", "joined_at__lte": "2024-01-31 23:59:59"}, []string{"Alice", "Alicia"}},
		{"unknown field ignored", map[string]string{"password": "x"}, []string{"Alice", "Bob", "Alicia"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(context.Background(), domain.PageRequest{Page: 1, PageSize: 10, Sort: "id:asc", Filter: tt.filter})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var names []string
			for _, m := range res.Items {
				names = append(names, m.Name)
			}
			if len(names) != len(tt.want) {
				t.Fatalf("names = %v; want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("names = %v; want %v", names, tt.want)
					break
				}
			}
			if res.Total != int64(len(tt.want)) {
				t.Errorf("Total = %d; want %d", res.Total, len(tt.want))
			}
		})
	}
}

func TestList_PaginationAndSort(t *testing.T) {
	repo := NewMemberRepository(testutil.NewSQLiteDB(t, &domain.Member{}))
	seedMembers(t, repo)

	res, err := repo.List(context.Background(), domain.PageRequest{Page: 2, PageSize: 2, Sort: "joined_at:desc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 3 || res.TotalPages != 2 {
		t.Errorf("Total=%d TotalPages=%d; want 3, 2", res.Total, res.TotalPages)
	}
	if len(res.Items) != 1 || res.Items[0].Name != "Alice" {
		t.Errorf("page 2 = %+v; want [Alice]", res.Items)
	}
}

func TestDelete(t *testing.T) {
	repo := NewMemberRepository(testutil.NewSQLiteDB(t, &domain.Member{}))
	ctx := context.Background()
	seedMembers(t, repo)

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, 1); !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, 1); !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestList_DatabaseErrorIsInternal(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "members"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.List(context.Background(), domain.PageRequest{Page: 1, PageSize: 10})
	if !domain.IsInternal(err) {
		t.Errorf("expected internal error, got %v", err)
	}
	if domain.IsUserFacing(err) {
		t.Error("database errors must not be user-facing")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDelete_NoRowsIsNotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectExec(`DELETE FROM "members" WHERE "members"."id" = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 7); !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
