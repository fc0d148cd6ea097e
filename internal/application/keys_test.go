package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelbot/internal/domain"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	a, err := DeriveKey("support-bot", "greeting", "Bonjour et bienvenue !", "")
	require.NoError(t, err)
	b, err := DeriveKey("support-bot", "greeting", "Bonjour et bienvenue !", "")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "support-bot", a.Namespace)
	assert.Equal(t, "support_bot_greeting_bonjour_et_bienvenue", a.Key)
}

func TestDeriveKey_ExplicitBypassesDerivation(t *testing.T) {
	id, err := DeriveKey("support-bot", "greeting", "whatever text", "my.explicit.key")
	require.NoError(t, err)
	assert.Equal(t, "my.explicit.key", id.Key)

	// Explicit keys do not require a default text.
	id, err = DeriveKey("support-bot", "", "", "another.key")
	require.NoError(t, err)
	assert.Equal(t, "another.key", id.Key)
}

func TestDeriveKey_InterpolatedValuesCollapse(t *testing.T) {
	// Texts differing only in placeholders or raw numbers share one key, so
	// wording varied at runtime still maps to a single translated label.
	base, err := DeriveKey("bot", "files", "You have {0} new messages", "")
	require.NoError(t, err)

	for _, text := range []string{
		"You have {1} new messages",
		"You have 5 new messages",
		"You have 1234 new messages",
		"You have {0,number} new messages",
	} {
		id, err := DeriveKey("bot", "files", text, "")
		require.NoError(t, err)
		assert.Equal(t, base.Key, id.Key, "text %q", text)
	}
}

func TestDeriveKey_DistinctTextsDistinctKeys(t *testing.T) {
	a, err := DeriveKey("bot", "files", "No files found", "")
	require.NoError(t, err)
	b, err := DeriveKey("bot", "files", "All files deleted", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, b.Key)

	// Same text in different categories also differs.
	c, err := DeriveKey("bot", "archive", "No files found", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, c.Key)
}

func TestDeriveKey_TruncationKeepsDistinct(t *testing.T) {
	long := strings.Repeat("a very long sentence about files ", 8)
	a, err := DeriveKey("bot", "files", long+"ending one", "")
	require.NoError(t, err)
	b, err := DeriveKey("bot", "files", long+"ending two", "")
	require.NoError(t, err)

	// Both texts truncate to the same prefix; the hash suffix keeps the
	// keys apart, and derivation stays deterministic.
	assert.NotEqual(t, a.Key, b.Key)
	again, err := DeriveKey("bot", "files", long+"ending one", "")
	require.NoError(t, err)
	assert.Equal(t, a.Key, again.Key)
}

func TestDeriveKey_Validation(t *testing.T) {
	_, err := DeriveKey("", "cat", "text", "")
	assert.ErrorIs(t, err, domain.ErrEmptyNamespace)

	_, err = DeriveKey("bot", "cat", "   ", "")
	assert.ErrorIs(t, err, domain.ErrEmptyDefaultText)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":     "hello_world",
		"déjà  vu":          "déjà_vu",
		"--leading/trail--": "leading_trail",
		"UPPER case 123":    "upper_case_123",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug(in), "slug(%q)", in)
	}

	long := slug(strings.Repeat("abc ", 40))
	assert.LessOrEqual(t, len([]rune(long)), maxSlugLen)
}
