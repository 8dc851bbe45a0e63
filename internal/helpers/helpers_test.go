package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, IsPasswordStrong("Str0ng!pass"))
	assert.False(t, IsPasswordStrong("short1!"))
	assert.False(t, IsPasswordStrong("alllowercase1!"))
	assert.False(t, IsPasswordStrong("NOLOWERCASE1!"))
	assert.False(t, IsPasswordStrong("NoNumbers!!"))
	assert.False(t, IsPasswordStrong("NoSpecial123"))
}

func TestStringTrim(t *testing.T) {
	assert.Equal(t, "Black Star Square", StringTrim("  Black   Star  Square "))
	assert.Equal(t, "", StringTrim("   "))
}

func TestRemoveDuplicates(t *testing.T) {
	got := RemoveDuplicates([]string{"accra", "kumasi", "accra", "tema"})
	assert.Equal(t, []string{"accra", "kumasi", "tema"}, got)
}

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug("Afro Nation", "Warmup 2026")

	assert.True(t, strings.HasPrefix(slug, "afro-nation-warmup-2026-"))
	assert.Equal(t, slug, strings.ToLower(slug))
	assert.NotEqual(t, slug, GenerateSlug("Afro Nation", "Warmup 2026"))
}
