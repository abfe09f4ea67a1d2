package customization

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "app_name", "status", "created_at", "updated_at"}
	allowedFilterFields = []string{"app_name", "status", "co_account_id", "created_at"}
)

type customizationRepository struct {
	db *gorm.DB
}

// NewCustomizationRepository creates a new CustomizationRepository backed by the given GORM database.
func NewCustomizationRepository(db *gorm.DB) domain.CustomizationRepository {
	return &customizationRepository{db: db}
}

// Create inserts a customization together with its steps.
func (r *customizationRepository) Create(ctx context.Context, c *domain.Customization) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *customizationRepository) GetByID(ctx context.Context, id uint) (*domain.Customization, error) {
	var c domain.Customization
	if err := r.db.WithContext(ctx).Scopes(withSteps).First(&c, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &c, nil
}

func (r *customizationRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Customization], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Customization{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var items []domain.Customization
	if err := base.Scopes(
		withSteps,
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&items).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.BuildPage(items, total, req), nil
}

// Update saves the customization's own columns; steps change through SaveStep.
func (r *customizationRepository) Update(ctx context.Context, c *domain.Customization) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Omit("Steps").Save(c).Error)
}

// SaveStep stores step and the customization status it led to atomically.
func (r *customizationRepository) SaveStep(ctx context.Context, c *domain.Customization, step *domain.ProvisioningStep) error {
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Save(step).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Customization{}).
			Where("id = ?", c.ID).
			Update("status", c.Status).Error
	})
	return pkg.MapDBError(err)
}

func withSteps(db *gorm.DB) *gorm.DB {
	return db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}
