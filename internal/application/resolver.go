package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
	"labelbot/internal/ports/output"
)

// RandSource picks the random alternative. It is injected so tests can pin a
// seed; the default is the process-wide math/rand/v2 source.
type RandSource interface {
	IntN(n int) int
}

type processRand struct{}

func (processRand) IntN(n int) int { return rand.IntN(n) }

// ResolutionEngine resolves an identifier against the label store using the
// specificity order over (locale, connectorType, interfaceType), creating a
// default row lazily on first miss.
type ResolutionEngine struct {
	store  output.LabelStore
	rnd    RandSource
	logger zerolog.Logger

	// serializes creation per identifier so N concurrent first-use misses
	// converge on a single store write.
	creating singleflight.Group

	// collision already warned, keyed by namespace+"\x00"+key. The warning
	// would otherwise repeat on every render of a drifted call site.
	warned sync.Map
}

// NewResolutionEngine builds an engine over store. rnd may be nil, in which
// case the process-wide random source is used.
func NewResolutionEngine(store output.LabelStore, rnd RandSource, logger zerolog.Logger) *ResolutionEngine {
	if rnd == nil {
		rnd = processRand{}
	}
	return &ResolutionEngine{store: store, rnd: rnd, logger: logger}
}

// Resolve returns one concrete pattern string for id in the given context.
//
// Specificity search, most specific first: (locale, connector, interface),
// (locale, connector, ∅), (locale, ∅, interface), (locale, ∅, ∅); then the
// same four tuples against the label's default locale; then the stored
// default text.
func (e *ResolutionEngine) Resolve(ctx context.Context, id entities.Identifier, defaultText string, rctx entities.RenderContext) (*entities.ResolvedPattern, error) {
	freshlyCreated := false
	label, err := e.store.GetLabel(ctx, id)
	switch {
	case errors.Is(err, domain.ErrLabelNotFound):
		label, freshlyCreated, err = e.createDefault(ctx, id, defaultText, rctx.Locale)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("resolve %s/%s: %w", id.Namespace, id.Key, err)
	}

	if label.DefaultText != defaultText && defaultText != "" {
		// Two distinct literals ended up on one key (slug truncation or a
		// changed call site). Last writer won at creation time; warn once per
		// key and keep resolving with the stored row.
		if _, seen := e.warned.LoadOrStore(id.Namespace+"\x00"+id.Key, struct{}{}); !seen {
			e.logger.Warn().
				Str("namespace", id.Namespace).
				Str("key", id.Key).
				Str("stored_text", label.DefaultText).
				Str("caller_text", defaultText).
				Msg("key collision: default texts differ for one label key")
		}
	}

	variant := e.findVariant(label, rctx)
	if variant == nil {
		return &entities.ResolvedPattern{Pattern: label.DefaultText, FreshlyCreated: freshlyCreated}, nil
	}
	return &entities.ResolvedPattern{
		Pattern:        e.pickAlternative(variant),
		Variant:        variant,
		FreshlyCreated: freshlyCreated,
	}, nil
}

// createDefault persists the lazily-created label: default locale from the
// request, the literal as only alternative of an unvalidated (locale, ∅, ∅)
// variant. Safe under concurrent first use.
func (e *ResolutionEngine) createDefault(ctx context.Context, id entities.Identifier, defaultText, locale string) (*entities.Label, bool, error) {
	fresh := &entities.Label{
		Identifier:    id,
		DefaultLocale: locale,
		DefaultText:   defaultText,
		Variants: []entities.LocalizedVariant{{
			VariantKey:   entities.VariantKey{Locale: locale},
			Alternatives: []string{defaultText},
			Validated:    false,
		}},
	}

	type upsertResult struct {
		label   *entities.Label
		created bool
	}
	v, err, _ := e.creating.Do(id.Namespace+"\x00"+id.Key, func() (any, error) {
		persisted, created, err := e.store.UpsertIfAbsent(ctx, fresh)
		if err != nil {
			// A write conflict usually means a concurrent writer got there
			// first; retry once as a read before giving up.
			if persisted, rerr := e.store.GetLabel(ctx, id); rerr == nil {
				return upsertResult{label: persisted}, nil
			}
			return nil, fmt.Errorf("create label %s/%s: %w", id.Namespace, id.Key, errors.Join(domain.ErrStoreUnavailable, err))
		}
		return upsertResult{label: persisted, created: created}, nil
	})
	if err != nil {
		return nil, false, err
	}

	res := v.(upsertResult)
	if res.created {
		e.logger.Debug().
			Str("namespace", id.Namespace).
			Str("key", id.Key).
			Str("locale", locale).
			Msg("label créé à la première résolution")
	}
	return res.label, res.created, nil
}

func (e *ResolutionEngine) findVariant(label *entities.Label, rctx entities.RenderContext) *entities.LocalizedVariant {
	for _, key := range rctx.CandidateKeys(rctx.Locale) {
		if v := label.Variant(key); v != nil && len(v.Alternatives) > 0 {
			return v
		}
	}
	if label.DefaultLocale != rctx.Locale {
		for _, key := range rctx.CandidateKeys(label.DefaultLocale) {
			if v := label.Variant(key); v != nil && len(v.Alternatives) > 0 {
				return v
			}
		}
	}
	return nil
}

// pickAlternative selects uniformly at random among the variant's
// alternatives. The non-determinism is intentional response variety.
func (e *ResolutionEngine) pickAlternative(v *entities.LocalizedVariant) string {
	if len(v.Alternatives) == 1 {
		return v.Alternatives[0]
	}
	return v.Alternatives[e.rnd.IntN(len(v.Alternatives))]
}
