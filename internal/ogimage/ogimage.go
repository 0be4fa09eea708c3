// Package ogimage renders the Open Graph preview card.
package ogimage

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image/color"
	"math/rand"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	Width  = 1200
	Height = 630

	DefaultTitle    = "Zach Kordas-Potter"
	DefaultSubtitle = "Software Engineer"
	DefaultTagline  = "Building <strong>fast</strong>, thoughtful software with <span>Go</span>"

	maxTitleRunes    = 80
	maxSubtitleRunes = 120
	maxTaglineRunes  = 400
)

// Params are the card's texts. Tagline is inline markup.
type Params struct {
	Title    string
	Subtitle string
	Tagline  string
}

// ParamsFromQuery reads title, subtitle and tagline, substituting the
// default for each one that is missing or blank.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Title:    valueOr(q.Get("title"), DefaultTitle),
		Subtitle: valueOr(q.Get("subtitle"), DefaultSubtitle),
		Tagline:  valueOr(q.Get("tagline"), DefaultTagline),
	}
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

var (
	bgTop      = color.NRGBA{R: 0x0b, G: 0x10, B: 0x2a, A: 0xff}
	bgBottom   = color.NRGBA{R: 0x2a, G: 0x11, B: 0x4b, A: 0xff}
	cardFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x10}
	cardBorder = color.NRGBA{R: 0x8b, G: 0x9c, B: 0xff, A: 0x55}
	textMain   = color.NRGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	textMuted  = color.NRGBA{R: 0xc7, G: 0xd2, B: 0xfe, A: 0xff}
	textAccent = color.NRGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
)

// Renderer holds the parsed fonts. It is safe for concurrent use; faces are
// built per render.
type Renderer struct {
	regular    *truetype.Font
	bold       *truetype.Font
	italic     *truetype.Font
	boldItalic *truetype.Font
}

func NewRenderer() (*Renderer, error) {
	parse := func(name string, ttf []byte) (*truetype.Font, error) {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s font: %w", name, err)
		}
		return f, nil
	}
	r := &Renderer{}
	var err error
	if r.regular, err = parse("regular", goregular.TTF); err != nil {
		return nil, err
	}
	if r.bold, err = parse("bold", gobold.TTF); err != nil {
		return nil, err
	}
	if r.italic, err = parse("italic", goitalic.TTF); err != nil {
		return nil, err
	}
	if r.boldItalic, err = parse("bold italic", gobolditalic.TTF); err != nil {
		return nil, err
	}
	return r, nil
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Render draws the card and encodes it as PNG. Identical params produce
// identical bytes.
func (r *Renderer) Render(p Params) ([]byte, error) {
	p.Title = truncate(p.Title, maxTitleRunes)
	p.Subtitle = truncate(p.Subtitle, maxSubtitleRunes)
	p.Tagline = truncate(p.Tagline, maxTaglineRunes)

	dc := gg.NewContext(Width, Height)

	grad := gg.NewLinearGradient(0, 0, Width, Height)
	grad.AddColorStop(0, bgTop)
	grad.AddColorStop(1, bgBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	drawStars(dc, seedFor(p))

	const inset = 60.0
	dc.DrawRoundedRectangle(inset, inset, Width-2*inset, Height-2*inset, 28)
	dc.SetColor(cardFill)
	dc.FillPreserve()
	dc.SetColor(cardBorder)
	dc.SetLineWidth(2)
	dc.Stroke()

	left := inset + 56
	textWidth := Width - 2*left
	y := inset + 70

	dc.SetFontFace(face(r.bold, 68))
	dc.SetColor(textMain)
	titleLines := dc.WordWrap(p.Title, textWidth)
	if len(titleLines) > 2 {
		titleLines = titleLines[:2]
	}
	for _, line := range titleLines {
		y += 68
		dc.DrawString(line, left, y)
		y += 12
	}

	y += 24
	dc.SetFontFace(face(r.regular, 38))
	dc.SetColor(textMuted)
	if lines := dc.WordWrap(p.Subtitle, textWidth); len(lines) > 0 {
		y += 38
		dc.DrawString(lines[0], left, y)
	}

	y += 40
	r.drawTagline(dc, ParseMarkup(p.Tagline), left, y, textWidth, 30)

	dc.DrawCircle(Width-inset-44, Height-inset-40, 10)
	dc.SetColor(textAccent)
	dc.SetLineWidth(3)
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

type styledWord struct {
	text  string
	run   Run
	space bool
}

// drawTagline lays the runs out word by word, wrapping at width and
// switching faces per run.
func (r *Renderer) drawTagline(dc *gg.Context, runs []Run, x, y, width, size float64) {
	faces := map[[2]bool]font.Face{
		{false, false}: face(r.regular, size),
		{true, false}:  face(r.bold, size),
		{false, true}:  face(r.italic, size),
		{true, true}:   face(r.boldItalic, size),
	}
	lineHeight := size * 1.4
	cx := x
	cy := y + size
	maxY := float64(Height) - 90

	for _, w := range splitWords(runs) {
		if w.run.Break {
			cx = x
			cy += lineHeight
			continue
		}
		dc.SetFontFace(faces[[2]bool{w.run.Bold, w.run.Italic}])
		ww, _ := dc.MeasureString(w.text)
		sw, _ := dc.MeasureString(" ")
		if w.space && cx > x {
			cx += sw
		}
		if cx+ww > x+width && cx > x {
			cx = x
			cy += lineHeight
		}
		if cy > maxY {
			return
		}
		if w.run.Accent {
			dc.SetColor(textAccent)
		} else {
			dc.SetColor(textMain)
		}
		dc.DrawString(w.text, cx, cy)
		cx += ww
	}
}

// splitWords breaks runs into words, remembering whether whitespace
// preceded each one so "fast</b>," stays glued while "a <b>b</b>" does not.
func splitWords(runs []Run) []styledWord {
	var out []styledWord
	pendingSpace := false
	for _, run := range runs {
		if run.Break {
			out = append(out, styledWord{run: run})
			pendingSpace = false
			continue
		}
		text := run.Text
		i := 0
		for i < len(text) {
			if isSpace(text[i]) {
				pendingSpace = true
				i++
				continue
			}
			j := i
			for j < len(text) && !isSpace(text[j]) {
				j++
			}
			out = append(out, styledWord{text: text[i:j], run: run, space: pendingSpace})
			pendingSpace = false
			i = j
		}
	}
	return out
}

func drawStars(dc *gg.Context, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 140; i++ {
		x := rng.Float64() * Width
		y := rng.Float64() * Height
		radius := 0.6 + rng.Float64()*1.6
		alpha := uint8(60 + rng.Intn(180))
		dc.DrawCircle(x, y, radius)
		dc.SetColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: alpha})
		dc.Fill()
	}
}

func seedFor(p Params) int64 {
	h := fnv.New64a()
	h.Write([]byte(p.Title))
	h.Write([]byte{0})
	h.Write([]byte(p.Subtitle))
	h.Write([]byte{0})
	h.Write([]byte(p.Tagline))
	return int64(h.Sum64())
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
