package layout

import (
	"errors"
	"fmt"

	"github.com/gompdf/cardgrid/internal/style"
)

// ErrInvalidConfig is returned for configurations that cannot be laid out
var ErrInvalidConfig = errors.New("layout: invalid configuration")

// TableCellInset is the horizontal space reserved inside a table cell; cell
// text wraps at the column width minus this amount.
const TableCellInset = 6

// Config is the immutable layout configuration of one document run
type Config struct {
	PageWidth  float64
	PageHeight float64

	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	Columns  int
	GridGapX float64
	GridGapY float64

	ImageAspectRatio float64
	ImageBorderWidth float64

	// TextGapBuffer is added to the first field's font size to give the
	// distance between the image bottom and the first text baseline.
	TextGapBuffer  float64
	TableTopMargin float64
	// AlignTableRows starts every table of a row at the same height.
	AlignTableRows bool

	Table  style.TableStyle
	Fields []style.FieldStyle
	Header style.HeaderStyle
	Meta   style.MetaStyle
}

// ColWidth is the width of one card column. It is always derived from the
// page geometry so it cannot go stale.
func (c Config) ColWidth() float64 {
	available := c.PageWidth - c.MarginLeft - c.MarginRight
	gaps := float64(c.Columns-1) * c.GridGapX
	return (available - gaps) / float64(c.Columns)
}

// ImageHeight is the height of the image box reserved on every card
func (c Config) ImageHeight() float64 {
	return c.ColWidth() / c.ImageAspectRatio
}

// TextGap is the distance from the image bottom to the first text baseline
func (c Config) TextGap() float64 {
	if len(c.Fields) == 0 {
		return c.TextGapBuffer
	}
	return c.Fields[0].Size + c.TextGapBuffer
}

// ColumnX returns the left edge of column i
func (c Config) ColumnX(i int) float64 {
	return c.MarginLeft + float64(i)*(c.ColWidth()+c.GridGapX)
}

// ContentTop is the cursor position at the top of a fresh page
func (c Config) ContentTop() float64 {
	return c.PageHeight - c.MarginTop
}

// Validate reports configuration errors that must abort a run before
// anything is drawn.
func (c Config) Validate() error {
	if c.Columns <= 0 {
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidConfig, c.Columns)
	}
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %gx%g", ErrInvalidConfig, c.PageWidth, c.PageHeight)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"margin_top", c.MarginTop},
		{"margin_right", c.MarginRight},
		{"margin_bottom", c.MarginBottom},
		{"margin_left", c.MarginLeft},
		{"grid_gap_x", c.GridGapX},
		{"grid_gap_y", c.GridGapY},
		{"img_border_width", c.ImageBorderWidth},
		{"text_gap_buffer", c.TextGapBuffer},
		{"table_top_margin", c.TableTopMargin},
	} {
		if f.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidConfig, f.name, f.v)
		}
	}
	if c.ImageAspectRatio <= 0 {
		return fmt.Errorf("%w: image aspect ratio must be positive, got %g", ErrInvalidConfig, c.ImageAspectRatio)
	}
	if w := c.ColWidth(); w <= 0 {
		return fmt.Errorf("%w: column width %g leaves no room for cards", ErrInvalidConfig, w)
	}
	if c.Table.KeyColRatio <= 0 || c.Table.KeyColRatio >= 1 {
		return fmt.Errorf("%w: table key column ratio must be in (0,1), got %g", ErrInvalidConfig, c.Table.KeyColRatio)
	}
	if c.Table.Size <= 0 {
		return fmt.Errorf("%w: table font size must be positive", ErrInvalidConfig)
	}
	for i, f := range c.Fields {
		if f.Size <= 0 {
			return fmt.Errorf("%w: field %d (%q) has non-positive font size", ErrInvalidConfig, i, f.Key)
		}
	}
	return nil
}
