package operator

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "name", "email", "role", "created_at", "updated_at"}
	allowedFilterFields = []string{"name", "email", "role", "co_account_id"}
)

// operatorRepository implements domain.OperatorRepository using GORM.
type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new OperatorRepository backed by the given GORM database.
func NewOperatorRepository(db *gorm.DB) domain.OperatorRepository {
	return &operatorRepository{db: db}
}

// Create inserts a new operator into the database.
func (r *operatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(op).Error)
}

// GetByID retrieves an operator by its primary key.
func (r *operatorRepository) GetByID(ctx context.Context, id uint) (*domain.Operator, error) {
	var op domain.Operator
	if err := r.db.WithContext(ctx).First(&op, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &op, nil
}

// GetByEmail retrieves an operator by email, ignoring case.
func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	var op domain.Operator
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&op).Error
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &op, nil
}

// List returns a paginated, sorted, and filtered list of operators.
func (r *operatorRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Operator], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Operator{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var ops []domain.Operator
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&ops).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.BuildPage(ops, total, req), nil
}

// Update saves changes to an existing operator.
func (r *operatorRepository) Update(ctx context.Context, op *domain.Operator) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Save(op).Error)
}

// Delete removes an operator by ID.
func (r *operatorRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Operator{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
