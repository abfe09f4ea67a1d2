package smscontent

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "code", "title", "language", "active", "updated_at"}
	allowedFilterFields = []string{"code", "title", "language", "active"}
)

type smsContentRepository struct {
	db *gorm.DB
}

// NewSMSContentRepository creates a new SMSContentRepository backed by the given GORM database.
func NewSMSContentRepository(db *gorm.DB) domain.SMSContentRepository {
	return &smsContentRepository{db: db}
}

func (r *smsContentRepository) Create(ctx context.Context, s *domain.SMSContent) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *smsContentRepository) GetByID(ctx context.Context, id uint) (*domain.SMSContent, error) {
	var s domain.SMSContent
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &s, nil
}

func (r *smsContentRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.SMSContent], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.SMSContent{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var items []domain.SMSContent
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&items).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.BuildPage(items, total, req), nil
}

func (r *smsContentRepository) Update(ctx context.Context, s *domain.SMSContent) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Save(s).Error)
}

func (r *smsContentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.SMSContent{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
