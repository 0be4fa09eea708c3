package ogimage

import (
	"bytes"
	"image/png"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsDefaults(t *testing.T) {
	p := ParamsFromQuery(url.Values{})
	assert.Equal(t, Params{Title: DefaultTitle, Subtitle: DefaultSubtitle, Tagline: DefaultTagline}, p)
}

func TestParamsOverrideOnlyTitle(t *testing.T) {
	p := ParamsFromQuery(url.Values{"title": {"Foo"}})
	assert.Equal(t, "Foo", p.Title)
	assert.Equal(t, DefaultSubtitle, p.Subtitle)
	assert.Equal(t, DefaultTagline, p.Tagline)
}

func TestParamsBlankFallsBack(t *testing.T) {
	p := ParamsFromQuery(url.Values{"subtitle": {"   "}})
	assert.Equal(t, DefaultSubtitle, p.Subtitle)
}

func TestRenderDimensionsAndDeterminism(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	p := ParamsFromQuery(url.Values{})
	first, err := r.Render(p)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())

	second, err := r.Render(p)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "same input must give the same image")

	other, err := r.Render(Params{Title: "Foo", Subtitle: DefaultSubtitle, Tagline: DefaultTagline})
	require.NoError(t, err)
	assert.False(t, bytes.Equal(first, other))
}

func TestRenderHandlesLongInput(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	long := ""
	for i := 0; i < 200; i++ {
		long += "word "
	}
	out, err := r.Render(Params{Title: long, Subtitle: long, Tagline: "<b>" + long + "</b><br>" + long})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestParseMarkup(t *testing.T) {
	runs := ParseMarkup("Building <strong>fast</strong>, thoughtful <em>and <span>bright</span></em><br/>apps &amp; tools")
	require.Equal(t, []Run{
		{Text: "Building "},
		{Text: "fast", Bold: true},
		{Text: ", thoughtful "},
		{Text: "and ", Italic: true},
		{Text: "bright", Italic: true, Accent: true},
		{Break: true},
		{Text: "apps & tools"},
	}, runs)
	assert.Equal(t, "Building fast, thoughtful and bright\napps & tools", PlainText(runs))
}

func TestParseMarkupUnknownTagsKeepText(t *testing.T) {
	runs := ParseMarkup(`<a href="x">link</a> <script>bad()</script>`)
	assert.Equal(t, "link bad()", PlainText(runs))
}

func TestParseMarkupUnbalanced(t *testing.T) {
	runs := ParseMarkup("</b>plain <b>bold")
	require.Len(t, runs, 2)
	assert.False(t, runs[0].Bold)
	assert.True(t, runs[1].Bold)
}

func TestSplitWordsKeepsPunctuationGlued(t *testing.T) {
	words := splitWords(ParseMarkup("Building <b>fast</b>, ok"))
	require.Len(t, words, 4)
	assert.Equal(t, "fast", words[1].text)
	assert.True(t, words[1].space)
	assert.Equal(t, ",", words[2].text)
	assert.False(t, words[2].space)
}
