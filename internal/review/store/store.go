// Package store persists evaluation records. The collection is append-only:
// there is no update or delete path, and duplicate submissions are permitted.
package store

import (
	"context"

	"guardpost/internal/review/models"
)

// EvaluationStore is the persistence interface for evaluation records.
//
// Error Contract:
// - Append returns a wrapped error when storage is unreachable or rejects the write.
// - ListAll returns records in storage iteration order; the order is stable
//   per store but not otherwise guaranteed.
type EvaluationStore interface {
	Append(ctx context.Context, e *models.Evaluation) error
	ListAll(ctx context.Context) ([]models.Evaluation, error)
}
