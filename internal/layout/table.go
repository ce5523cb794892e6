package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gompdf/cardgrid/internal/text"
)

// ErrMalformedTable marks table_data that could not be interpreted
var ErrMalformedTable = errors.New("layout: malformed table data")

// TableRowText is one formatted table row: the wrapped key and value
type TableRowText struct {
	KeyLines   []string
	ValueLines []string
}

// KeyText is the key cell display string
func (r TableRowText) KeyText() string { return strings.Join(r.KeyLines, "\n") }

// ValueText is the value cell display string
func (r TableRowText) ValueText() string { return strings.Join(r.ValueLines, "\n") }

// lineCount is the number of text lines the row occupies; an empty row
// still takes one line.
func (r TableRowText) lineCount() int {
	n := max(len(r.KeyLines), len(r.ValueLines))
	return max(n, 1)
}

// TableRow is a positioned table row; Top is measured from the table top
type TableRow struct {
	TableRowText
	Top    float64
	Height float64
}

// TableLayout is a fully measured key/value table
type TableLayout struct {
	KeyWidth   float64
	ValueWidth float64
	Rows       []TableRow
	Height     float64
}

// Width is the total table width
func (t *TableLayout) Width() float64 { return t.KeyWidth + t.ValueWidth }

// tableColumns splits the card width between key and value columns
func tableColumns(cfg Config) (float64, float64) {
	colWidth := cfg.ColWidth()
	return colWidth * cfg.Table.KeyColRatio, colWidth * (1 - cfg.Table.KeyColRatio)
}

// FormatTable turns raw table_data into wrapped rows. Empty input yields
// no rows and no error; input that cannot be interpreted yields no rows and
// an error wrapping ErrMalformedTable.
func FormatTable(raw any, cfg Config, m text.Measurer) ([]TableRowText, error) {
	entries, err := tableEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	keyWidth, valueWidth := tableColumns(cfg)
	ts := cfg.Table
	rows := make([]TableRowText, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, TableRowText{
			KeyLines:   text.Wrap(e.Key, ts.Font, ts.Size, keyWidth-TableCellInset, m),
			ValueLines: text.Wrap(e.Value, ts.Font, ts.Size, valueWidth-TableCellInset, m),
		})
	}
	return rows, nil
}

// LayoutTable positions formatted rows at the current column width. It
// returns nil for an empty table.
func LayoutTable(rows []TableRowText, cfg Config) *TableLayout {
	if len(rows) == 0 {
		return nil
	}
	keyWidth, valueWidth := tableColumns(cfg)
	t := &TableLayout{KeyWidth: keyWidth, ValueWidth: valueWidth}
	lineHeight := cfg.Table.LineHeight()
	for _, r := range rows {
		h := float64(r.lineCount())*lineHeight + 2*cfg.Table.Padding
		t.Rows = append(t.Rows, TableRow{TableRowText: r, Top: t.Height, Height: h})
		t.Height += h
	}
	return t
}

// MeasureTable returns the rendered height of the formatted rows
func MeasureTable(rows []TableRowText, cfg Config) float64 {
	t := LayoutTable(rows, cfg)
	if t == nil {
		return 0
	}
	return t.Height
}
