package region

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

type regionRepository struct {
	db *gorm.DB
}

// NewRegionRepository creates a new RegionRepository backed by the given GORM database.
func NewRegionRepository(db *gorm.DB) domain.RegionRepository {
	return &regionRepository{db: db}
}

// ListByParent returns the regions of level under parentCode, ordered by name.
func (r *regionRepository) ListByParent(ctx context.Context, level, parentCode string) ([]domain.Region, error) {
	var regions []domain.Region
	q := r.db.WithContext(ctx).Where("level = ?", level)
	if parentCode != "" {
		q = q.Where("parent_code = ?", parentCode)
	}
	if err := q.Order("name ASC").Find(&regions).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return regions, nil
}

// Seed inserts regions, leaving existing codes untouched.
func (r *regionRepository) Seed(ctx context.Context, regions []domain.Region) error {
	if len(regions) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(regions, 100).Error
	return pkg.MapDBError(err)
}
