package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"speaker":   "%speaker%",
		"100%":      `%100\%%`,
		"mvp_110":   `%mvp\_110%`,
		`c:\sounds`: `%c:\\sounds%`,
	}
	for term, want := range cases {
		assert.Equal(t, want, containsPattern(term), term)
	}
}

func TestGormWhatsAppDeleteRejectsMalformedID(t *testing.T) {
	// a malformed id never reaches the database
	repo := NewWhatsAppNumberRepository(nil)

	removed, err := repo.Delete(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, removed)
}
