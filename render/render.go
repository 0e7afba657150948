package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"furigana/model"
)

// ErrUnknownFormat is returned by ByName for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Func renders a segment sequence as a single string.
type Func func(model.Segments) string

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func xmlescape(s string) string {
	return xmlEscaper.Replace(s)
}

// annotation returns the reading worth printing for seg, if any. Empty readings and
// readings that merely repeat the text carry no information.
func annotation(seg model.Segment) (string, bool) {
	r := seg.ReadingOrEmpty()
	if r == "" || r == seg.Text {
		return "", false
	}
	return r, true
}

// HTML wraps every annotated segment in a ruby element.
func HTML(segs model.Segments) string {
	var b strings.Builder
	for _, seg := range segs {
		if r, ok := annotation(seg); ok {
			fmt.Fprintf(&b, "<ruby>%s<rt>%s</rt></ruby>", xmlescape(seg.Text), xmlescape(r))
			continue
		}
		b.WriteString(xmlescape(seg.Text))
	}
	return b.String()
}

// Plain writes readings in parentheses after the text they annotate: 澱(よど)んだ.
func Plain(segs model.Segments) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.Text)
		if r, ok := annotation(seg); ok {
			b.WriteString("(")
			b.WriteString(r)
			b.WriteString(")")
		}
	}
	return b.String()
}

// JSON encodes the segments as a JSON array on one line.
func JSON(segs model.Segments) string {
	if segs == nil {
		segs = model.Segments{}
	}
	b, err := json.Marshal(segs)
	if err != nil {
		// segments hold only strings
		panic(err)
	}
	return string(b)
}

// ByName returns the renderer for format: "html", "plain" or "json".
func ByName(format string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "html":
		return HTML, nil
	case "plain", "text":
		return Plain, nil
	case "json":
		return JSON, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
