// Package sheets exports transactions to spreadsheet backends.
package sheets

import (
	"context"

	"budgeto/internal/core"
)

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
