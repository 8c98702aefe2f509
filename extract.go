package ocrtable

import (
	"math"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// pageChar is a single character from a PDF text layer.
type pageChar struct {
	Text rune
	Box  Rect
}

// ExtractFileWordBoxes opens a PDF and extracts the words of one page
// (0-indexed) as word boxes. The returned canvas is the page rectangle.
func ExtractFileWordBoxes(instance pdfium.Pdfium, filePath string, pageIndex int) ([]WordBox, Rect, error) {
	doc, err := instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, Rect{}, errors.Wrap(err, "failed to open PDF document")
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageResp, err := instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: doc.Document,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, Rect{}, errors.Wrapf(err, "failed to load page %d", pageIndex+1)
	}
	defer instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	return ExtractWordBoxes(instance, pageResp.Page)
}

// ExtractWordBoxes reads the text layer of a loaded PDF page and returns its
// words as word boxes in top-left origin coordinates, along with the page
// rectangle as canvas. It lets born-digital documents go through the same
// table reconstruction as OCR output.
func ExtractWordBoxes(instance pdfium.Pdfium, page references.FPDF_PAGE) ([]WordBox, Rect, error) {
	pageWidth, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, Rect{}, errors.Wrap(err, "failed to get page width")
	}

	pageHeight, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, Rect{}, errors.Wrap(err, "failed to get page height")
	}

	canvas := NewRect(0, 0, float64(pageWidth.PageWidth), float64(pageHeight.PageHeight))

	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, Rect{}, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, Rect{}, errors.Wrap(err, "failed to count characters")
	}

	if charCount.Count == 0 {
		return []WordBox{}, canvas, nil
	}

	chars := extractPageChars(instance, textPage.TextPage, charCount.Count, float64(pageHeight.PageHeight))
	words := NewWordBoxes(groupCharsIntoFragments(chars), IngestOptions{})

	return words, canvas, nil
}

// extractPageChars extracts every character and its box. Characters pdfium
// cannot describe are skipped.
func extractPageChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageHeight float64) []pageChar {
	chars := make([]pageChar, 0, count)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		// Convert PDF coordinates (origin bottom-left) to standard (origin top-left)
		chars = append(chars, pageChar{
			Text: rune(unicodeRes.Unicode),
			Box: Rect{
				X0: charBox.Left,
				Y0: pageHeight - charBox.Top,
				X1: charBox.Right,
				Y1: pageHeight - charBox.Bottom,
			},
		})
	}

	return chars
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// calculateAverageCharWidth calculates the average character width for a set of chars
func calculateAverageCharWidth(chars []pageChar) float64 {
	var total float64
	var n int
	for _, char := range chars {
		if isWhitespace(char.Text) {
			continue
		}
		total += char.Box.Width()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// startsNewWord reports whether curr begins a new word after prev even though
// no whitespace separates them: the text wrapped to another line, or a
// horizontal gap wider than a typical character opened up.
func startsNewWord(prev, curr pageChar, avgCharWidth float64) bool {
	if curr.Box.Y0 > prev.Box.Y1 || curr.Box.Y1 < prev.Box.Y0 {
		return true
	}
	gap := curr.Box.X0 - prev.Box.X1
	return avgCharWidth > 0 && (gap > avgCharWidth || gap < -avgCharWidth*2)
}

// groupCharsIntoFragments groups characters into words on whitespace, line
// changes and wide horizontal gaps.
func groupCharsIntoFragments(chars []pageChar) []Fragment {
	if len(chars) == 0 {
		return nil
	}

	avgCharWidth := calculateAverageCharWidth(chars)

	var fragments []Fragment
	var text []rune
	var box Rect

	flush := func() {
		if len(text) == 0 {
			return
		}
		fragments = append(fragments, Fragment{
			Text:   string(text),
			Left:   box.X0,
			Top:    box.Y0,
			Width:  box.Width(),
			Height: box.Height(),
		})
		text = nil
	}

	var prev *pageChar
	for i := range chars {
		char := chars[i]
		if isWhitespace(char.Text) {
			flush()
			prev = nil
			continue
		}

		if prev != nil && startsNewWord(*prev, char, avgCharWidth) {
			flush()
		}

		if len(text) == 0 {
			box = char.Box
		} else {
			box.X0 = math.Min(box.X0, char.Box.X0)
			box.Y0 = math.Min(box.Y0, char.Box.Y0)
			box.X1 = math.Max(box.X1, char.Box.X1)
			box.Y1 = math.Max(box.Y1, char.Box.Y1)
		}
		text = append(text, char.Text)
		prev = &chars[i]
	}
	flush()

	return fragments
}
