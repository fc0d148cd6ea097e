package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelbot/internal/domain/entities"
	"labelbot/internal/infrastructure/memory"
)

func TestLoadEmbedded(t *testing.T) {
	store := memory.NewStore()

	require.NoError(t, LoadEmbedded(context.Background(), store, "bot", zerolog.Nop()))

	label, err := store.GetLabel(context.Background(), entities.Identifier{Namespace: "bot", Key: "welcome"})
	require.NoError(t, err)

	// active.en.toml is seeded first, so English is the default locale and
	// the French file contributes a second variant.
	assert.Equal(t, "en", label.DefaultLocale)
	assert.Equal(t, "Welcome, {0}!", label.DefaultText)
	require.Len(t, label.Variants, 2)

	fr := label.Variant(entities.VariantKey{Locale: "fr"})
	require.NotNil(t, fr)
	assert.Equal(t, []string{"Bienvenue, {0} !"}, fr.Alternatives)
	assert.False(t, fr.Validated)
}

func TestLoad_IsAdditiveOnRerun(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, LoadEmbedded(context.Background(), store, "bot", zerolog.Nop()))

	// An administrator refines the French wording after the first seed.
	id := entities.Identifier{Namespace: "bot", Key: "welcome"}
	require.NoError(t, store.SaveVariant(context.Background(), id, &entities.LocalizedVariant{
		VariantKey:   entities.VariantKey{Locale: "fr"},
		Alternatives: []string{"Bienvenue parmi nous, {0} !"},
		Validated:    true,
	}))

	// Re-seeding must not undo the edit.
	require.NoError(t, LoadEmbedded(context.Background(), store, "bot", zerolog.Nop()))

	fr, err := store.FindVariant(context.Background(), id, entities.VariantKey{Locale: "fr"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bienvenue parmi nous, {0} !"}, fr.Alternatives)
	assert.True(t, fr.Validated)
}
