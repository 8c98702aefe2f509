package ocrtable

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/width"
)

// Fragment is a recognized text fragment as handed over by an OCR engine.
type Fragment struct {
	Text   string  `json:"text"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the fragment's bounding rectangle.
func (f Fragment) Rect() Rect {
	return NewRect(f.Left, f.Top, f.Width, f.Height)
}

// Capture is one OCR pass over a screen region.
type Capture struct {
	// Canvas is the bound of the captured region (only Left/Top/Width/Height are used).
	Canvas    Fragment   `json:"canvas"`
	Fragments []Fragment `json:"fragments"`
}

// IngestOptions controls how fragments become word boxes.
type IngestOptions struct {
	// FoldWidth maps full-width forms such as "５０％" to their ASCII
	// equivalents so the percent heuristics can see them (default: false)
	FoldWidth bool
}

// NormalizeText trims text and applies the configured folding.
func (o IngestOptions) NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if o.FoldWidth {
		text = width.Fold.String(text)
	}
	return text
}

// NewWordBoxes converts fragments into word boxes. Text is trimmed here, once;
// fragments left with no text are dropped. Geometry is passed through as-is,
// including degenerate rectangles.
func NewWordBoxes(fragments []Fragment, opts IngestOptions) []WordBox {
	words := make([]WordBox, 0, len(fragments))
	for _, f := range fragments {
		text := opts.NormalizeText(f.Text)
		if text == "" {
			continue
		}
		words = append(words, WordBox{
			Text: text,
			Box:  f.Rect(),
		})
	}
	return words
}

// LoadCapture decodes a Capture from JSON. A bare array of fragments is
// accepted as well.
func LoadCapture(r io.Reader) (Capture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Capture{}, errors.Wrap(err, "failed to read capture")
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var fragments []Fragment
		if err := json.Unmarshal(data, &fragments); err != nil {
			return Capture{}, errors.Wrap(err, "failed to decode fragments")
		}
		return Capture{Fragments: fragments}, nil
	}

	var capture Capture
	if err := json.Unmarshal(data, &capture); err != nil {
		return Capture{}, errors.Wrap(err, "failed to decode capture")
	}
	return capture, nil
}
