package lifecycle

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not_found")

// FieldError is a client-input failure on one request field. Domain packages
// declare their own as package-level sentinels.
type FieldError struct {
	Field string
	Code  string
}

func NewFieldError(field, code string) *FieldError {
	return &FieldError{Field: field, Code: code}
}

func (e *FieldError) Error() string { return e.Code }

var (
	// ErrTenantMismatch is returned when the tenant in the body differs from
	// the tenant asserted by the path or query.
	ErrTenantMismatch = NewFieldError("tenant_id", "tenant_mismatch")
	ErrInvalidTenant  = NewFieldError("tenant_id", "invalid_tenant_id")
)

// AssertTenant checks the tenant named in an admin request body against the
// tenant asserted by the caller. A nil asserted tenant only requires body to
// be set.
func AssertTenant(asserted *uuid.UUID, body uuid.UUID) error {
	if body == uuid.Nil {
		return ErrInvalidTenant
	}
	if asserted != nil && *asserted != body {
		return ErrTenantMismatch
	}
	return nil
}
