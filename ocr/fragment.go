package ocr

import (
	"image"
	"strings"

	"github.com/pkg/errors"

	"github.com/ivanvanderbyl/ocrtable"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// newFragment converts a recognized word and its pixel box into a fragment.
// Words that are blank after trimming are reported as not ok.
func newFragment(word string, box image.Rectangle) (ocrtable.Fragment, bool) {
	if strings.TrimSpace(word) == "" {
		return ocrtable.Fragment{}, false
	}
	box = box.Canon()
	return ocrtable.Fragment{
		Text:   word,
		Left:   float64(box.Min.X),
		Top:    float64(box.Min.Y),
		Width:  float64(box.Dx()),
		Height: float64(box.Dy()),
	}, true
}
