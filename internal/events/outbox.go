package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OutboxRecord is a published-later envelope. Rows are written by
// OutboxPublisher and drained by OutboxRelay.
type OutboxRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false"`
	EventID     string         `gorm:"type:varchar(26);not null;uniqueIndex"`
	EventType   string         `gorm:"type:varchar(255);not null"`
	Kind        string         `gorm:"type:varchar(64);not null"`
	Action      string         `gorm:"type:varchar(32);not null"`
	TenantID    string         `gorm:"type:varchar(36);not null;index"`
	Envelope    datatypes.JSON `gorm:"not null"`
	Headers     datatypes.JSON
	Published   bool      `gorm:"not null;default:false;index"`
	Attempts    int       `gorm:"not null;default:0"`
	LastError   string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	PublishedAt *time.Time
}

func (OutboxRecord) TableName() string { return "event_outbox" }

// ToEnvelope restores the routed envelope stored in the row.
func (r OutboxRecord) ToEnvelope() (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(r.Envelope, &env); err != nil {
		return Envelope{}, err
	}
	if len(r.Headers) > 0 {
		if err := json.Unmarshal(r.Headers, &env.Headers); err != nil {
			return Envelope{}, err
		}
	}
	env.Kind = r.Kind
	env.Action = Action(r.Action)
	return env, nil
}

// OutboxPublisher stores envelopes in event_outbox instead of sending them.
// Inside a mutation the row is written by the mutation's transaction, so an
// envelope exists exactly when its mutation committed.
type OutboxPublisher struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutboxPublisher(db *gorm.DB, genID *snowflake.Node) *OutboxPublisher {
	return &OutboxPublisher{db: db, genID: genID}
}

func (p *OutboxPublisher) Name() string { return "outbox" }

func (p *OutboxPublisher) Transactional() bool { return true }

func (p *OutboxPublisher) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	headers, err := json.Marshal(env.Headers)
	if err != nil {
		return err
	}

	record := OutboxRecord{
		ID:        p.genID.Generate().Int64(),
		EventID:   env.EventID,
		EventType: env.EventType,
		Kind:      env.Kind,
		Action:    string(env.Action),
		TenantID:  env.TenantID,
		Envelope:  datatypes.JSON(body),
		Headers:   datatypes.JSON(headers),
		CreatedAt: env.OccurredAt,
	}
	conn := p.db
	if tx := txFrom(ctx); tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(&record).Error
}
