package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/events"
)

// Kind tells the Engine how to handle one entity kind.
type Kind[T any] struct {
	// Name is the event name, e.g. "kb_article".
	Name string
	// Order is the default ORDER BY of listings.
	Order string

	ID       func(*T) uuid.UUID
	Snapshot func(*T) map[string]any

	// Headers adds transport headers to every event of the row, e.g. a
	// secondary key consumers route on.
	Headers func(*T) map[string]string

	// Touch stamps update audit fields on row and returns the columns it set.
	// Nil for kinds without updated_at/updated_by.
	Touch func(row *T, actor string, at time.Time) map[string]any

	// Validate runs on the would-be row before an update is written.
	Validate func(before, after *T) error

	// AfterUpdate runs after the updated event was published. ctx names the
	// updated event as causation.
	AfterUpdate func(ctx context.Context, notifier *events.KindNotifier, before, after *T, delta Delta) error
}

// Touch returns the common updated_at/updated_by stamping function.
func Touch[T any](at func(*T) *time.Time, by func(*T) *string) func(*T, string, time.Time) map[string]any {
	return func(row *T, actor string, now time.Time) map[string]any {
		*at(row) = now
		*by(row) = actor
		return map[string]any{"updated_at": now, "updated_by": actor}
	}
}
