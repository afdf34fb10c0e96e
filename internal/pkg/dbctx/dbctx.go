package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Aggregate writes pass a transaction in Tx; reads leave it nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Session returns the bundled transaction, or fallback when the call is not
// running inside one, scoped to the request context.
func (d Context) Session(fallback *gorm.DB) *gorm.DB {
	transaction := d.Tx
	if transaction == nil {
		transaction = fallback
	}
	return transaction.WithContext(d.Ctx)
}
