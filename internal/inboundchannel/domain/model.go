package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"gorm.io/datatypes"
)

// InboundChannel is a source through which tickets arrive.
type InboundChannel struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;index:ix_inbound_channel_tenant;uniqueIndex:ux_inbound_channel_tenant_external_ref,priority:1"`
	ChannelType string         `json:"channel_type" gorm:"size:50;not null;uniqueIndex:ux_inbound_channel_tenant_external_ref,priority:2"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	ExternalRef *string        `json:"external_ref" gorm:"size:255;uniqueIndex:ux_inbound_channel_tenant_external_ref,priority:3"`
	Config      datatypes.JSON `json:"config" gorm:"type:jsonb"`
	IsActive    bool           `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CreatedBy   string         `json:"created_by" gorm:"size:100"`
	UpdatedBy   string         `json:"updated_by" gorm:"size:100"`
}

func (InboundChannel) TableName() string { return "inbound_channel" }

func (c *InboundChannel) Snapshot() map[string]any {
	return map[string]any{
		"id":           c.ID.String(),
		"tenant_id":    c.TenantID.String(),
		"channel_type": c.ChannelType,
		"name":         c.Name,
		"external_ref": lifecycle.StringPtr(c.ExternalRef),
		"config":       lifecycle.JSON(c.Config),
		"is_active":    c.IsActive,
		"created_at":   lifecycle.Time(c.CreatedAt),
		"updated_at":   lifecycle.Time(c.UpdatedAt),
		"created_by":   c.CreatedBy,
		"updated_by":   c.UpdatedBy,
	}
}

var channelTypes = map[string]struct{}{
	"email": {}, "web": {}, "chat": {}, "sms": {},
	"voice": {}, "api": {}, "internal": {}, "social": {},
}

func ValidChannelType(v string) bool {
	_, ok := channelTypes[v]
	return ok
}
