package member

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "name", "email", "status", "joined_at", "created_at"}
	allowedFilterFields = []string{"name", "email", "phone", "status", "co_account_id", "joined_at"}
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository backed by the given GORM database.
func NewMemberRepository(db *gorm.DB) domain.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(m).Error)
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	var m domain.Member
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &m, nil
}

// List returns a paginated, sorted, and filtered list of members.
func (r *memberRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Member], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Member{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var members []domain.Member
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&members).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.BuildPage(members, total, req), nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Save(m).Error)
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Member{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
