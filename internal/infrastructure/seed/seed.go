// Package seed bootstraps the label store from go-i18n TOML message files,
// so an existing translation bundle can pre-populate labels before first use.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
	"labelbot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// LoadEmbedded seeds the store from the embedded active.*.toml files.
func LoadEmbedded(ctx context.Context, store output.LabelStore, namespace string, logger zerolog.Logger) error {
	files, err := fs.Glob(localeFS, "active.*.toml")
	if err != nil {
		return fmt.Errorf("seed: glob embedded files: %w", err)
	}
	return Load(ctx, store, namespace, localeFS, files, logger)
}

// Load parses each go-i18n message file and upserts its messages as labels:
// the message ID becomes the explicit key, the message text the single
// alternative of an unvalidated variant at (file locale, ∅, ∅). Existing
// variants are never overwritten, so seeding is additive and re-runnable.
func Load(ctx context.Context, store output.LabelStore, namespace string, fsys fs.FS, files []string, logger zerolog.Logger) error {
	for _, file := range files {
		buf, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("seed: read %s: %w", file, err)
		}

		mf, err := i18n.ParseMessageFileBytes(buf, file, map[string]i18n.UnmarshalFunc{"toml": toml.Unmarshal})
		if err != nil {
			return fmt.Errorf("seed: parse %s: %w", file, err)
		}

		locale := mf.Tag.String()
		added := 0
		for _, msg := range mf.Messages {
			text := msg.Other
			if text == "" {
				text = msg.One
			}
			if text == "" {
				continue
			}
			ok, err := seedMessage(ctx, store, namespace, msg.ID, locale, text)
			if err != nil {
				return fmt.Errorf("seed: message %s: %w", msg.ID, err)
			}
			if ok {
				added++
			}
		}
		logger.Info().
			Str("file", file).
			Str("locale", locale).
			Int("added", added).
			Msg("labels initialisés depuis le bundle")
	}
	return nil
}

func seedMessage(ctx context.Context, store output.LabelStore, namespace, key, locale, text string) (bool, error) {
	id := entities.Identifier{Namespace: namespace, Key: key}
	variantKey := entities.VariantKey{Locale: locale}

	_, created, err := store.UpsertIfAbsent(ctx, &entities.Label{
		Identifier:    id,
		DefaultLocale: locale,
		DefaultText:   text,
		Variants: []entities.LocalizedVariant{{
			VariantKey:   variantKey,
			Alternatives: []string{text},
		}},
	})
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}

	// The label predates this seed run; add the locale variant only if that
	// exact tuple is still unset.
	_, err = store.FindVariant(ctx, id, variantKey)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrVariantNotFound) {
		return false, err
	}
	return true, store.SaveVariant(ctx, id, &entities.LocalizedVariant{
		VariantKey:   variantKey,
		Alternatives: []string{text},
	})
}
