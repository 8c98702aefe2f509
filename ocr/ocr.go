//go:build ocr

// Package ocr recognizes word-level text fragments in screenshots, ready to
// be fed to the table analyzer.
//
// This package wraps the Tesseract OCR engine via gosseract and is only built
// with the "ocr" build tag. It requires Tesseract to be installed on the
// system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"

	"github.com/ivanvanderbyl/ocrtable"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeWords performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns one fragment per recognized word, in image pixel coordinates.
func (c *Client) RecognizeWords(imageData []byte) ([]ocrtable.Fragment, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, errors.Wrap(err, "failed to set image")
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(err, "OCR failed")
	}

	fragments := make([]ocrtable.Fragment, 0, len(boxes))
	for _, box := range boxes {
		if f, ok := newFragment(box.Word, box.Box); ok {
			fragments = append(fragments, f)
		}
	}
	return fragments, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
