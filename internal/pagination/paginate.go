package pagination

import (
	"github.com/gompdf/cardgrid/internal/layout"
	"github.com/gompdf/cardgrid/internal/style"
)

// KeypadAnchor maps a keypad position to the anchor point and alignment of
// a meta text:
//
//	7 8 9   top
//	4 5 6   middle
//	1 2 3   bottom
//
// Top positions subtract the font size as well as the padding so the text
// clears the page edge. Unknown positions anchor bottom-left.
func KeypadAnchor(position int, padding, size, pageWidth, pageHeight float64) (float64, float64, style.Align) {
	x, align := padding, style.AlignLeft
	switch position {
	case 2, 5, 8:
		x, align = pageWidth/2, style.AlignCenter
	case 3, 6, 9:
		x, align = pageWidth-padding, style.AlignRight
	}

	y := padding
	switch position {
	case 4, 5, 6:
		y = pageHeight / 2
	case 7, 8, 9:
		y = pageHeight - padding - size
	}
	return x, y, align
}

// headerX is the anchor x of a header line
func headerX(align style.Align, cfg layout.Config) float64 {
	switch align {
	case style.AlignCenter:
		return cfg.PageWidth / 2
	case style.AlignRight:
		return cfg.PageWidth - cfg.MarginRight
	}
	return cfg.MarginLeft
}
