package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/gorm"
)

// Scope narrows a query. Filters and lookups are expressed as scopes so the
// tenant predicate is always applied by the store itself.
type Scope func(*gorm.DB) *gorm.DB

// Repository is a tenant-scoped store over a single table. Every lookup and
// write is keyed by tenant; only List may span tenants.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	FindOne(ctx context.Context, tenantID uuid.UUID, scopes ...Scope) (*T, error)
	List(ctx context.Context, tenantID *uuid.UUID, page pagination.Page, order string, scopes ...Scope) ([]*T, int64, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, tenantID, id uuid.UUID, columns map[string]any) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

func ByID(id uuid.UUID) Scope {
	return Eq("id", id)
}

// Eq is an exact-match filter on column.
func Eq(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// EqPtr is Eq when value is set and no filter otherwise.
func EqPtr[V any](column string, value *V) Scope {
	if value == nil {
		return nil
	}
	return Eq(column, *value)
}
