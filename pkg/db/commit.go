package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/pkg/rls"
	"gorm.io/gorm"
)

// Commit runs fn inside a single transaction scoped to tenantID and
// translates any failure, including the commit itself, through Translate.
// On postgres the tenant is also exposed to row level security policies.
func Commit(ctx context.Context, conn *gorm.DB, tenantID uuid.UUID, action string, fn func(tx *gorm.DB) error) error {
	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == TypePostgres {
			if err := rls.WithTenant(tx, tenantID); err != nil {
				return err
			}
		}
		return fn(tx)
	})
	return Translate(action, err)
}
