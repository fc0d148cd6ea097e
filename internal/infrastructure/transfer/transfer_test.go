package transfer

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
	"labelbot/internal/infrastructure/memory"
)

func sampleFile() *File {
	return &File{
		Namespace: "bot",
		Labels: []Record{
			{
				Key:           "welcome",
				DefaultLocale: "en",
				DefaultText:   "Welcome, {0}!",
				Variants: []VariantRecord{
					{Locale: "en", Alternatives: []string{"Welcome, {0}!"}, Validated: true},
					{Locale: "fr", Alternatives: []string{"Bienvenue, {0} !"}, Validated: true},
					{Locale: "en", ConnectorType: "discord", Alternatives: []string{"Hey {0}!"}, Validated: false},
				},
			},
			{
				Key:           "goodbye",
				DefaultLocale: "en",
				DefaultText:   "Bye, {0}.",
			},
		},
	}
}

func TestImport_CreatesLabelsAndVariants(t *testing.T) {
	store := memory.NewStore()

	stats, err := Import(context.Background(), store, sampleFile(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.LabelsCreated)
	assert.Equal(t, 3, stats.VariantsWritten)
	assert.Equal(t, 0, stats.VariantsSkipped)

	label, err := store.GetLabel(context.Background(), entities.Identifier{Namespace: "bot", Key: "welcome"})
	require.NoError(t, err)
	assert.Len(t, label.Variants, 3)
}

func TestImport_ValidatedOverwrites(t *testing.T) {
	store := memory.NewStore()
	_, err := Import(context.Background(), store, sampleFile(), zerolog.Nop())
	require.NoError(t, err)

	update := &File{
		Namespace: "bot",
		Labels: []Record{{
			Key:           "welcome",
			DefaultLocale: "en",
			DefaultText:   "Welcome, {0}!",
			Variants: []VariantRecord{
				{Locale: "fr", Alternatives: []string{"Bienvenue parmi nous, {0} !"}, Validated: true},
			},
		}},
	}
	stats, err := Import(context.Background(), store, update, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LabelsCreated)
	assert.Equal(t, 1, stats.VariantsWritten)

	v, err := store.FindVariant(context.Background(),
		entities.Identifier{Namespace: "bot", Key: "welcome"},
		entities.VariantKey{Locale: "fr"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bienvenue parmi nous, {0} !"}, v.Alternatives)
}

func TestImport_UnvalidatedIsAdditiveOnly(t *testing.T) {
	store := memory.NewStore()
	_, err := Import(context.Background(), store, sampleFile(), zerolog.Nop())
	require.NoError(t, err)

	update := &File{
		Namespace: "bot",
		Labels: []Record{{
			Key:           "welcome",
			DefaultLocale: "en",
			DefaultText:   "Welcome, {0}!",
			Variants: []VariantRecord{
				// Existing validated tuple: must not be displaced.
				{Locale: "fr", Alternatives: []string{"Salut {0}"}, Validated: false},
				// New tuple: written.
				{Locale: "de", Alternatives: []string{"Willkommen, {0}!"}, Validated: false},
			},
		}},
	}
	stats, err := Import(context.Background(), store, update, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.VariantsWritten)
	assert.Equal(t, 1, stats.VariantsSkipped)

	v, err := store.FindVariant(context.Background(),
		entities.Identifier{Namespace: "bot", Key: "welcome"},
		entities.VariantKey{Locale: "fr"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bienvenue, {0} !"}, v.Alternatives)
	assert.True(t, v.Validated)
}

func TestExport_RoundTrip(t *testing.T) {
	store := memory.NewStore()
	_, err := Import(context.Background(), store, sampleFile(), zerolog.Nop())
	require.NoError(t, err)

	exported, err := Export(context.Background(), store, "bot")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exported.Encode(&buf))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "bot", decoded.Namespace)
	require.Len(t, decoded.Labels, 2)

	// ListLabels sorts by key, so goodbye comes first.
	assert.Equal(t, "goodbye", decoded.Labels[0].Key)
	assert.Equal(t, "welcome", decoded.Labels[1].Key)
	assert.Len(t, decoded.Labels[1].Variants, 3)
}

func TestDecode_RequiresNamespace(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("labels = []\n"))
	assert.ErrorIs(t, err, domain.ErrEmptyNamespace)
}
