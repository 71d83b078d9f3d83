package glean

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-sommer/stick"
)

func TestPrompts_BuiltinRendering(t *testing.T) {
	p, err := NewPrompts()
	require.NoError(t, err)

	t.Run("themes", func(t *testing.T) {
		out, err := p.Render(PurposeThemes, map[string]stick.Value{"year": 2024})
		require.NoError(t, err)
		assert.Contains(t, out, "thematic trade ideas for 2024")
		assert.Contains(t, out, "extract all of the theme names")
	})

	t.Run("companies", func(t *testing.T) {
		out, err := p.Render(PurposeCompanies, map[string]stick.Value{
			"year":  2024,
			"theme": "AI Infrastructure",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "the theme: AI Infrastructure")
		assert.Contains(t, out, "ticker symbol")
		assert.Contains(t, out, "long or short")
	})

	t.Run("predictions", func(t *testing.T) {
		out, err := p.Render(PurposePredictions, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "podcast")
		assert.Contains(t, out, "timeframe")
	})

	t.Run("video ideas", func(t *testing.T) {
		out, err := p.Render(PurposeVideoIdeas, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "bullish or bearish")
	})

	t.Run("guru", func(t *testing.T) {
		out, err := p.Render(PurposeGuru, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "Price targets")
		assert.Contains(t, out, "timestamp of the prediction")
	})
}

func TestPrompts_UnknownPurpose(t *testing.T) {
	p, err := NewPrompts()
	require.NoError(t, err)

	_, err = p.Render("sentiment", nil)
	assert.ErrorIs(t, err, ErrUnknownPurpose)
}

func TestPrompts_WithTemplate(t *testing.T) {
	p, err := NewPrompts(WithTemplate("sentiment", "Rate the sentiment of {{ subject }}."))
	require.NoError(t, err)

	out, err := p.Render("sentiment", map[string]stick.Value{"subject": "the transcript"})
	require.NoError(t, err)
	assert.Equal(t, "Rate the sentiment of the transcript.", out)
}

func TestPrompts_WithTemplateFS(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/sentiment.twig": {Data: []byte("Sentiment for {{ name }}.")},
		"prompts/themes.twig":    {Data: []byte("Override: {{ year }}.")},
		"prompts/readme.txt":     {Data: []byte("ignored")},
	}
	p, err := NewPrompts(WithTemplateFS(fsys, "prompts"))
	require.NoError(t, err)

	out, err := p.Render("sentiment", map[string]stick.Value{"name": "NVDA"})
	require.NoError(t, err)
	assert.Equal(t, "Sentiment for NVDA.", out)

	out, err = p.Render(PurposeThemes, map[string]stick.Value{"year": 2025})
	require.NoError(t, err)
	assert.Equal(t, "Override: 2025.", out, "FS templates shadow the built-ins")

	_, err = p.Render("readme", nil)
	assert.ErrorIs(t, err, ErrUnknownPurpose)
}
