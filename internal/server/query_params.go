package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// pathUUID reads a required UUID path parameter.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return parsed, nil
}

// queryUUID reads an optional UUID query parameter.
func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	parsed, err := parseOptionalUUID(c.Query(name))
	if err != nil {
		return nil, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return parsed, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	parsed, err := parseOptionalBool(c.Query(name))
	if err != nil {
		return nil, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return parsed, nil
}

// requiredTenantQuery reads the tenant_id query parameter admin item routes
// are scoped by.
func requiredTenantQuery(c *gin.Context) (uuid.UUID, error) {
	tenantID, err := queryUUID(c, "tenant_id")
	if err != nil {
		return uuid.Nil, err
	}
	if tenantID == nil {
		return uuid.Nil, newValidationError("tenant_id", "required", "tenant_id is required")
	}
	return *tenantID, nil
}

func pageFromQuery(c *gin.Context) (pagination.Page, error) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		return pagination.Page{}, newValidationError("pagination", "invalid_pagination", "invalid limit or offset")
	}
	if page.Limit < 0 || page.Offset < 0 {
		return pagination.Page{}, pagination.ErrInvalidPage
	}
	return page, nil
}
