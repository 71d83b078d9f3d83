package glean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{
		PurposeCompanies,
		PurposeGuru,
		PurposePredictions,
		PurposeThemes,
		PurposeVideoIdeas,
	}, r.Purposes())
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	sch, err := r.Lookup(PurposeThemes)
	require.NoError(t, err)
	assert.Equal(t, PurposeThemes, sch.Purpose())
	assert.Equal(t, genai.TypeArray, sch.Constraint().Type)

	guru, err := r.Lookup(PurposeGuru)
	require.NoError(t, err)
	assert.Equal(t, genai.TypeObject, guru.Constraint().Type, "guru reports are single objects")

	_, err = r.Lookup("sentiment")
	assert.ErrorIs(t, err, ErrUnknownPurpose)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	custom := MustSchemaOf[flatRecord](PurposeThemes)
	r.Register(custom)

	sch, err := r.Lookup(PurposeThemes)
	require.NoError(t, err)
	assert.Same(t, custom, sch)
	assert.Len(t, r.Purposes(), 5, "replacing does not grow the registry")
}

func TestRegistry_MustLookupPanics(t *testing.T) {
	r := NewRegistry()
	assert.NotPanics(t, func() { r.MustLookup(PurposeCompanies) })
	assert.Panics(t, func() { r.MustLookup("nope") })
}
