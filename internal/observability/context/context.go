package context

import (
	stdcontext "context"
	"strings"
)

type key int

const (
	requestIDKey key = iota
	tenantIDKey
	actorKey
)

func WithRequestID(ctx stdcontext.Context, requestID string) stdcontext.Context {
	return stdcontext.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx stdcontext.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithTenantID records the tenant for log enrichment only.
func WithTenantID(ctx stdcontext.Context, tenantID string) stdcontext.Context {
	return stdcontext.WithValue(ctx, tenantIDKey, strings.TrimSpace(tenantID))
}

func TenantIDFromContext(ctx stdcontext.Context) string {
	return stringValue(ctx, tenantIDKey)
}

func WithActor(ctx stdcontext.Context, actor string) stdcontext.Context {
	return stdcontext.WithValue(ctx, actorKey, strings.TrimSpace(actor))
}

func ActorFromContext(ctx stdcontext.Context) string {
	return stringValue(ctx, actorKey)
}

func stringValue(ctx stdcontext.Context, k key) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(k).(string)
	return v
}
