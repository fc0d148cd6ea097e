package output

import (
	"context"

	"labelbot/internal/domain/entities"
)

// LabelStore is the persistence contract for labels and their localized
// variants. The store exclusively owns Label/LocalizedVariant lifetime;
// callers hold only transient handles and never cache mutable references
// across calls.
type LabelStore interface {
	// GetLabel returns the label with all its variants, or
	// domain.ErrLabelNotFound.
	GetLabel(ctx context.Context, id entities.Identifier) (*entities.Label, error)

	// UpsertIfAbsent atomically creates label unless one already exists for
	// its identifier, and returns the persisted row either way; created
	// reports whether this call inserted it. Concurrent first-use of the
	// same identifier must converge on a single row.
	UpsertIfAbsent(ctx context.Context, label *entities.Label) (persisted *entities.Label, created bool, err error)

	// FindVariant returns the variant stored at exactly key, or
	// domain.ErrVariantNotFound.
	FindVariant(ctx context.Context, id entities.Identifier, key entities.VariantKey) (*entities.LocalizedVariant, error)

	// SaveVariant creates or replaces the variant at its tuple. This is the
	// administrative edit path.
	SaveVariant(ctx context.Context, id entities.Identifier, variant *entities.LocalizedVariant) error

	// ListLabels returns every label of a namespace, for export.
	ListLabels(ctx context.Context, namespace string) ([]entities.Label, error)
}
