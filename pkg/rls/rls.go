package rls

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithTenant pins app.current_tenant_id for the lifetime of the surrounding
// postgres transaction so row level security policies can filter on it.
func WithTenant(tx *gorm.DB, tenantID uuid.UUID) error {
	return tx.Exec(
		"SELECT set_config('app.current_tenant_id', ?, true)",
		tenantID.String(),
	).Error
}
