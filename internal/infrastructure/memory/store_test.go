package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
)

func newLabel(key string) *entities.Label {
	return &entities.Label{
		Identifier:    entities.Identifier{Namespace: "bot", Key: key},
		DefaultLocale: "en",
		DefaultText:   "hello",
		Variants: []entities.LocalizedVariant{{
			VariantKey:   entities.VariantKey{Locale: "en"},
			Alternatives: []string{"hello"},
		}},
	}
}

func TestUpsertIfAbsent(t *testing.T) {
	store := NewStore()

	first, created, err := store.UpsertIfAbsent(context.Background(), newLabel("greet"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.CreatedAt.IsZero())

	other := newLabel("greet")
	other.DefaultText = "a different literal"
	second, created, err := store.UpsertIfAbsent(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "hello", second.DefaultText)
}

func TestUpsertIfAbsent_RejectsEmptyAlternatives(t *testing.T) {
	store := NewStore()
	label := newLabel("greet")
	label.Variants[0].Alternatives = nil

	_, _, err := store.UpsertIfAbsent(context.Background(), label)
	assert.ErrorIs(t, err, domain.ErrNoAlternatives)
}

func TestGetLabel_ReturnsCopies(t *testing.T) {
	store := NewStore()
	_, _, err := store.UpsertIfAbsent(context.Background(), newLabel("greet"))
	require.NoError(t, err)

	id := entities.Identifier{Namespace: "bot", Key: "greet"}
	a, err := store.GetLabel(context.Background(), id)
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	a.Variants[0].Alternatives[0] = "mutated"
	b, err := store.GetLabel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, b.Variants[0].Alternatives)
}

func TestSaveVariant(t *testing.T) {
	store := NewStore()
	id := entities.Identifier{Namespace: "bot", Key: "greet"}

	err := store.SaveVariant(context.Background(), id, &entities.LocalizedVariant{
		VariantKey:   entities.VariantKey{Locale: "en"},
		Alternatives: []string{"x"},
	})
	assert.ErrorIs(t, err, domain.ErrLabelNotFound)

	_, _, err = store.UpsertIfAbsent(context.Background(), newLabel("greet"))
	require.NoError(t, err)

	// Replace the existing tuple, then add a new one.
	require.NoError(t, store.SaveVariant(context.Background(), id, &entities.LocalizedVariant{
		VariantKey:   entities.VariantKey{Locale: "en"},
		Alternatives: []string{"hi", "hello"},
		Validated:    true,
	}))
	require.NoError(t, store.SaveVariant(context.Background(), id, &entities.LocalizedVariant{
		VariantKey:   entities.VariantKey{Locale: "en", ConnectorType: "discord"},
		Alternatives: []string{"hey"},
	}))

	label, err := store.GetLabel(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, label.Variants, 2)

	v := label.Variant(entities.VariantKey{Locale: "en"})
	require.NotNil(t, v)
	assert.Equal(t, []string{"hi", "hello"}, v.Alternatives)
	assert.True(t, v.Validated)
}

func TestListLabels_FiltersAndSorts(t *testing.T) {
	store := NewStore()
	for _, key := range []string{"zeta", "alpha"} {
		_, _, err := store.UpsertIfAbsent(context.Background(), newLabel(key))
		require.NoError(t, err)
	}
	otherNS := newLabel("elsewhere")
	otherNS.Namespace = "other"
	_, _, err := store.UpsertIfAbsent(context.Background(), otherNS)
	require.NoError(t, err)

	labels, err := store.ListLabels(context.Background(), "bot")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "alpha", labels[0].Key)
	assert.Equal(t, "zeta", labels[1].Key)
}
