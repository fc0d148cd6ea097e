// Package transfer implements the TOML import/export boundary: a sequence of
// label records exchanged with translation tooling. Validated records
// merge-overwrite; unvalidated records are additive only.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
	"labelbot/internal/ports/output"
)

// File is the on-disk exchange format.
type File struct {
	Namespace string   `toml:"namespace"`
	Labels    []Record `toml:"labels"`
}

// Record carries one label with its variants.
type Record struct {
	Key           string          `toml:"key"`
	DefaultLocale string          `toml:"default_locale"`
	DefaultText   string          `toml:"default_text"`
	Variants      []VariantRecord `toml:"variants,omitempty"`
}

type VariantRecord struct {
	Locale        string   `toml:"locale"`
	ConnectorType string   `toml:"connector_type,omitempty"`
	InterfaceType string   `toml:"interface_type,omitempty"`
	Alternatives  []string `toml:"alternatives"`
	Validated     bool     `toml:"validated"`
}

// Stats summarizes one import run.
type Stats struct {
	LabelsCreated   int
	VariantsWritten int
	VariantsSkipped int
}

// Export reads every label of namespace into a File.
func Export(ctx context.Context, store output.LabelStore, namespace string) (*File, error) {
	labels, err := store.ListLabels(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	f := &File{Namespace: namespace, Labels: make([]Record, 0, len(labels))}
	for _, label := range labels {
		rec := Record{
			Key:           label.Key,
			DefaultLocale: label.DefaultLocale,
			DefaultText:   label.DefaultText,
		}
		for _, v := range label.Variants {
			rec.Variants = append(rec.Variants, VariantRecord{
				Locale:        v.Locale,
				ConnectorType: v.ConnectorType,
				InterfaceType: v.InterfaceType,
				Alternatives:  v.Alternatives,
				Validated:     v.Validated,
			})
		}
		f.Labels = append(f.Labels, rec)
	}
	return f, nil
}

// Encode writes the file as TOML.
func (f *File) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Decode parses a TOML exchange file.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode transfer file: %w", err)
	}
	if f.Namespace == "" {
		return nil, domain.ErrEmptyNamespace
	}
	return &f, nil
}

// Import merges f into the store. Labels are created when absent. A
// validated variant record overwrites whatever is stored at its tuple; an
// unvalidated record is written only when the tuple is still unset, so it
// can never displace an existing variant, validated or not.
func Import(ctx context.Context, store output.LabelStore, f *File, logger zerolog.Logger) (Stats, error) {
	var stats Stats
	for _, rec := range f.Labels {
		if rec.Key == "" || rec.DefaultText == "" {
			return stats, fmt.Errorf("import: label record without key or default text")
		}

		id := entities.Identifier{Namespace: f.Namespace, Key: rec.Key}
		_, created, err := store.UpsertIfAbsent(ctx, &entities.Label{
			Identifier:    id,
			DefaultLocale: rec.DefaultLocale,
			DefaultText:   rec.DefaultText,
		})
		if err != nil {
			return stats, fmt.Errorf("import %s: %w", rec.Key, err)
		}
		if created {
			stats.LabelsCreated++
		}

		for _, vr := range rec.Variants {
			written, err := importVariant(ctx, store, id, vr)
			if err != nil {
				return stats, fmt.Errorf("import %s: %w", rec.Key, err)
			}
			if written {
				stats.VariantsWritten++
			} else {
				stats.VariantsSkipped++
			}
		}
	}

	logger.Info().
		Int("labels_created", stats.LabelsCreated).
		Int("variants_written", stats.VariantsWritten).
		Int("variants_skipped", stats.VariantsSkipped).
		Msg("import terminé")
	return stats, nil
}

func importVariant(ctx context.Context, store output.LabelStore, id entities.Identifier, vr VariantRecord) (bool, error) {
	variant := &entities.LocalizedVariant{
		VariantKey: entities.VariantKey{
			Locale:        vr.Locale,
			ConnectorType: vr.ConnectorType,
			InterfaceType: vr.InterfaceType,
		},
		Alternatives: vr.Alternatives,
		Validated:    vr.Validated,
	}

	if !vr.Validated {
		_, err := store.FindVariant(ctx, id, variant.VariantKey)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, domain.ErrVariantNotFound) {
			return false, err
		}
	}
	if err := store.SaveVariant(ctx, id, variant); err != nil {
		return false, err
	}
	return true, nil
}
