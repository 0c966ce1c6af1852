package sheets

import (
	"context"
	"fmt"
	"sync"

	"budgeto/internal/core"
)

// MemoryWriter records appended transactions in memory. It stands in for
// the Google adapter in worker tests and local runs without credentials.
type MemoryWriter struct {
	mu   sync.Mutex
	rows []core.Transaction

	// FailNext makes the next Append return an error, for testing the
	// sync-error path.
	FailNext bool
}

var _ TransactionWriter = (*MemoryWriter)(nil)

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

func (w *MemoryWriter) Append(_ context.Context, t core.Transaction) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailNext {
		w.FailNext = false
		return "", fmt.Errorf("append failed")
	}
	if err := t.Validate(); err != nil {
		return "", err
	}
	w.rows = append(w.rows, t)
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *MemoryWriter) Rows() []core.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.Transaction(nil), w.rows...)
}
