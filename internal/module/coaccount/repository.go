package coaccount

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "code", "name", "status", "created_at"}
	allowedFilterFields = []string{"id", "code", "name", "email", "status", "country_code", "province_code", "city_code"}
)

type coAccountRepository struct {
	db *gorm.DB
}

// NewCOAccountRepository creates a new COAccountRepository backed by the given GORM database.
func NewCOAccountRepository(db *gorm.DB) domain.COAccountRepository {
	return &coAccountRepository{db: db}
}

// Create inserts a CO account together with its sub-lists.
func (r *coAccountRepository) Create(ctx context.Context, co *domain.COAccount) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(co).Error)
}

func (r *coAccountRepository) GetByID(ctx context.Context, id uint) (*domain.COAccount, error) {
	var co domain.COAccount
	if err := r.db.WithContext(ctx).Scopes(withChildren).First(&co, id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &co, nil
}

// List returns a page of CO accounts. Sub-lists are not loaded.
func (r *coAccountRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.COAccount], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.COAccount{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var items []domain.COAccount
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&items).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.BuildPage(items, total, req), nil
}

// Update saves co and replaces every sub-list with the one it carries.
func (r *coAccountRepository) Update(ctx context.Context, co *domain.COAccount) error {
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(co).Error; err != nil {
			return err
		}
		if err := replaceAll(tx, co.ID, co.BankAccounts, func(b *domain.BankAccount) { b.ID, b.COAccountID = 0, co.ID }); err != nil {
			return err
		}
		if err := replaceAll(tx, co.ID, co.Addresses, func(a *domain.Address) { a.ID, a.COAccountID = 0, co.ID }); err != nil {
			return err
		}
		if err := replaceAll(tx, co.ID, co.Contacts, func(c *domain.Contact) { c.ID, c.COAccountID = 0, co.ID }); err != nil {
			return err
		}
		return replaceAll(tx, co.ID, co.PICUsers, func(p *domain.PICUser) { p.ID, p.COAccountID = 0, co.ID })
	})
	return pkg.MapDBError(err)
}

func (r *coAccountRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&domain.COAccount{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a CO account and its sub-lists.
func (r *coAccountRepository) Delete(ctx context.Context, id uint) error {
	var affected int64
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		for _, child := range []any{&domain.BankAccount{}, &domain.Address{}, &domain.Contact{}, &domain.PICUser{}} {
			if err := tx.Where("co_account_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&domain.COAccount{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return pkg.MapDBError(err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func withChildren(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return db.
		Preload("BankAccounts", byID).
		Preload("Addresses", byID).
		Preload("Contacts", byID).
		Preload("PICUsers", byID)
}

// replaceAll deletes the rows of E owned by coID and inserts items in their
// place. bind resets each item's key and owner before the insert.
func replaceAll[E any](tx *gorm.DB, coID uint, items []E, bind func(*E)) error {
	if err := tx.Where("co_account_id = ?", coID).Delete(new(E)).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		bind(&items[i])
	}
	return tx.Create(&items).Error
}
