package eav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		expected string
	}{
		{"Color", "color"},
		{"Height (cm)", "height_cm"},
		{"  Body   Temperature  ", "body_temperature"},
		{"Straße", "strasse"},
		{"多国語", "duo_guo_yu"},
		{"already_a_slug", "already_a_slug"},
	}

	for _, testCase := range testCases {
		require.Equal(t, testCase.expected, Slugify(testCase.name), "name: `%s`", testCase.name)
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, Slugify("Body Temperature"), Slugify("Body Temperature"))
}

func TestIsValidSlug(t *testing.T) {
	t.Parallel()

	valid := []string{"color", "height_cm", "a", "x2"}
	for _, slug := range valid {
		require.True(t, IsValidSlug(slug), "slug: `%s`", slug)
	}

	invalid := []string{"", "2fast", "_color", "has-dash", "Has Space", "UPPER"}
	for _, slug := range invalid {
		require.False(t, IsValidSlug(slug), "slug: `%s`", slug)
	}
}
