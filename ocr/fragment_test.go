package ocr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivanvanderbyl/ocrtable"
)

func TestNewFragment(t *testing.T) {
	tests := []struct {
		name   string
		word   string
		box    image.Rectangle
		want   ocrtable.Fragment
		wantOK bool
	}{
		{
			name:   "word",
			word:   "Revenue",
			box:    image.Rect(10, 20, 60, 32),
			want:   ocrtable.Fragment{Text: "Revenue", Left: 10, Top: 20, Width: 50, Height: 12},
			wantOK: true,
		},
		{
			name:   "inverted box",
			word:   "%",
			box:    image.Rectangle{Min: image.Pt(30, 40), Max: image.Pt(20, 30)},
			want:   ocrtable.Fragment{Text: "%", Left: 20, Top: 30, Width: 10, Height: 10},
			wantOK: true,
		},
		{
			name: "blank",
			word: "  ",
			box:  image.Rect(0, 0, 5, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := newFragment(tt.word, tt.box)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
