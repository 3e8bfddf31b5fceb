package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/gorm"
)

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (r *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	return &store[T]{db: tx}
}

// FindOne returns nil, nil when no row matches.
func (r *store[T]) FindOne(ctx context.Context, tenantID uuid.UUID, scopes ...Scope) (*T, error) {
	var result T
	err := r.tenant(ctx, tenantID).Scopes(toGorm(scopes)...).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *store[T]) List(ctx context.Context, tenantID *uuid.UUID, page pagination.Page, order string, scopes ...Scope) ([]*T, int64, error) {
	stmt := r.db.WithContext(ctx).Model(new(T))
	if tenantID != nil {
		stmt = stmt.Where("tenant_id = ?", *tenantID)
	}
	stmt = stmt.Scopes(toGorm(scopes)...)

	var total int64
	if err := stmt.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*T
	err := stmt.Session(&gorm.Session{}).
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *store[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update writes only the given columns. It returns gorm.ErrRecordNotFound
// when the row vanished between read and write.
func (r *store[T]) Update(ctx context.Context, tenantID, id uuid.UUID, columns map[string]any) error {
	res := r.tenant(ctx, tenantID).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *store[T]) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *store[T]) tenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Where("tenant_id = ?", tenantID)
}

func toGorm(scopes []Scope) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, 0, len(scopes))
	for _, s := range scopes {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
