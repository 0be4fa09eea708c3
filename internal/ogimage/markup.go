package ogimage

import (
	"strings"

	"golang.org/x/net/html"
)

// Run is a stretch of tagline text sharing one style. A Break run forces a
// new line and carries no text.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Accent bool
	Break  bool
}

// ParseMarkup turns the tagline's inline markup into styled runs. <b> and
// <strong> are bold, <em> and <i> italic, <span> and <mark> use the accent
// colour, <br> breaks the line. Other tags only contribute their text.
func ParseMarkup(s string) []Run {
	var (
		runs                 []Run
		bold, italic, accent int
	)
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was parsed.
			return mergeRuns(runs)
		case html.TextToken:
			text := collapseSpace(string(z.Text()))
			if text == "" {
				continue
			}
			runs = append(runs, Run{Text: text, Bold: bold > 0, Italic: italic > 0, Accent: accent > 0})
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				runs = append(runs, Run{Break: true})
			case "b", "strong":
				if tt == html.StartTagToken {
					bold++
				}
			case "em", "i":
				if tt == html.StartTagToken {
					italic++
				}
			case "span", "mark":
				if tt == html.StartTagToken {
					accent++
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				bold = max(bold-1, 0)
			case "em", "i":
				italic = max(italic-1, 0)
			case "span", "mark":
				accent = max(accent-1, 0)
			}
		}
	}
}

// PlainText is the tagline with markup removed.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Break {
			b.WriteString("\n")
			continue
		}
		b.WriteString(r.Text)
	}
	return strings.TrimSpace(b.String())
}

func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func mergeRuns(in []Run) []Run {
	var out []Run
	for _, r := range in {
		if n := len(out); n > 0 && !r.Break && !out[n-1].Break &&
			out[n-1].Bold == r.Bold && out[n-1].Italic == r.Italic && out[n-1].Accent == r.Accent {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
