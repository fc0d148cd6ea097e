// Package memory provides an in-memory LabelStore, used as the test double
// and as a no-database local mode.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
	"labelbot/internal/ports/output"
)

var _ output.LabelStore = (*Store)(nil)

// Store keeps labels in a map guarded by a RWMutex: many concurrent readers,
// serialized writes. All returned values are deep copies so callers never
// hold mutable references into the store.
type Store struct {
	mu     sync.RWMutex
	labels map[entities.Identifier]*entities.Label
}

func NewStore() *Store {
	return &Store{labels: make(map[entities.Identifier]*entities.Label)}
}

func (s *Store) GetLabel(_ context.Context, id entities.Identifier) (*entities.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	label, ok := s.labels[id]
	if !ok {
		return nil, domain.ErrLabelNotFound
	}
	return cloneLabel(label), nil
}

func (s *Store) UpsertIfAbsent(_ context.Context, label *entities.Label) (*entities.Label, bool, error) {
	for i := range label.Variants {
		if len(label.Variants[i].Alternatives) == 0 {
			return nil, false, domain.ErrNoAlternatives
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.labels[label.Identifier]; ok {
		return cloneLabel(existing), false, nil
	}

	now := time.Now()
	stored := cloneLabel(label)
	stored.CreatedAt, stored.UpdatedAt = now, now
	for i := range stored.Variants {
		stored.Variants[i].CreatedAt, stored.Variants[i].UpdatedAt = now, now
	}
	s.labels[label.Identifier] = stored
	return cloneLabel(stored), true, nil
}

func (s *Store) FindVariant(_ context.Context, id entities.Identifier, key entities.VariantKey) (*entities.LocalizedVariant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	label, ok := s.labels[id]
	if !ok {
		return nil, domain.ErrLabelNotFound
	}
	v := label.Variant(key)
	if v == nil {
		return nil, domain.ErrVariantNotFound
	}
	clone := *v
	clone.Alternatives = slices.Clone(v.Alternatives)
	return &clone, nil
}

func (s *Store) SaveVariant(_ context.Context, id entities.Identifier, variant *entities.LocalizedVariant) error {
	if len(variant.Alternatives) == 0 {
		return domain.ErrNoAlternatives
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	label, ok := s.labels[id]
	if !ok {
		return domain.ErrLabelNotFound
	}

	now := time.Now()
	clone := *variant
	clone.Alternatives = slices.Clone(variant.Alternatives)
	clone.UpdatedAt = now

	if existing := label.Variant(variant.VariantKey); existing != nil {
		clone.CreatedAt = existing.CreatedAt
		*existing = clone
	} else {
		clone.CreatedAt = now
		label.Variants = append(label.Variants, clone)
	}
	label.UpdatedAt = now
	return nil
}

func (s *Store) ListLabels(_ context.Context, namespace string) ([]entities.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entities.Label
	for id, label := range s.labels {
		if id.Namespace == namespace {
			out = append(out, *cloneLabel(label))
		}
	}
	slices.SortFunc(out, func(a, b entities.Label) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out, nil
}

func cloneLabel(l *entities.Label) *entities.Label {
	clone := *l
	clone.Variants = slices.Clone(l.Variants)
	for i := range clone.Variants {
		clone.Variants[i].Alternatives = slices.Clone(clone.Variants[i].Alternatives)
	}
	return &clone
}
