package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "req-1")
	_, cid := EnsureCorrelationID(ctx)
	assert.Equal(t, "req-1", cid)

	ctx, generated := EnsureCorrelationID(context.Background())
	assert.Len(t, generated, 26)
	assert.Equal(t, generated, ExtractCorrelationID(ctx))
}

func TestTraceparent(t *testing.T) {
	assert.Empty(t, Traceparent(context.Background()))

	ctx := ContextWithRemoteSpan(context.Background(), "4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7")
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", Traceparent(ctx))

	ctx = ContextWithRemoteSpan(context.Background(), "zz", "00f067aa0ba902b7")
	assert.Empty(t, Traceparent(ctx))
}

func TestCausationID(t *testing.T) {
	assert.Empty(t, ExtractCausationID(context.Background()))
	ctx := ContextWithCausationID(context.Background(), "evt-1")
	assert.Equal(t, "evt-1", ExtractCausationID(ctx))
	assert.Equal(t, ctx, ContextWithCausationID(ctx, ""))
}
