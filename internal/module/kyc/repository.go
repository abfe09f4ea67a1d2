package kyc

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "full_name", "status", "document_type", "created_at", "reviewed_at"}
	allowedFilterFields = []string{"reference", "full_name", "status", "document_type", "member_id", "co_account_id", "created_at"}
)

type kycRepository struct {
	db *gorm.DB
}

// NewKYCRepository creates a new KYCRepository backed by the given GORM database.
func NewKYCRepository(db *gorm.DB) domain.KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(ctx context.Context, k *domain.KYCRequest) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(k).Error)
}

func (r *kycRepository) GetByID(ctx context.Context, id uint) (*domain.KYCRequest, error) {
	var k domain.KYCRequest
	if err := r.db.WithContext(ctx).First(&k, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &k, nil
}

func (r *kycRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.KYCRequest], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.KYCRequest{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var items []domain.KYCRequest
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&items).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.BuildPage(items, total, req), nil
}

// Update saves a reviewed request. It only succeeds while the stored request
// is still pending, so two reviewers cannot both decide it.
func (r *kycRepository) Update(ctx context.Context, k *domain.KYCRequest) error {
	result := r.db.WithContext(ctx).Model(&domain.KYCRequest{}).
		Where("id = ? AND status = ?", k.ID, domain.KYCPending).
		Updates(map[string]any{
			"status":      k.Status,
			"note":        k.Note,
			"reviewed_by": k.ReviewedBy,
			"reviewed_at": k.ReviewedAt,
		})
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeConflict, "kyc request has already been reviewed", nil)
	}
	return nil
}
