package events

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=publisher.go -destination=mock/publisher.go -package=mock

// Publisher hands a fully built envelope to a transport.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, env Envelope) error
}

// Transactional is implemented by publishers that write through the
// mutation's own database transaction. Their envelopes are emitted before
// the commit and roll back with it.
type Transactional interface {
	Transactional() bool
}

type txKey struct{}

// WithTx carries the open mutation transaction to transactional publishers.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}
