package layout

import (
	"github.com/gompdf/cardgrid/internal/style"
	"github.com/gompdf/cardgrid/internal/text"
)

// FieldBlock is one wrapped text field of a card. Baseline is the distance
// from the card top to the baseline of the first line.
type FieldBlock struct {
	Style    style.FieldStyle
	Lines    []string
	Baseline float64
}

// Height is the vertical space the block consumes including its padding
func (f FieldBlock) Height() float64 {
	return float64(len(f.Lines))*f.Style.LineHeight() + f.Style.Padding
}

// Card is the measured layout of one participant card. The page engine uses
// it to decide page breaks and the renderer draws exactly this layout, so
// measurement and drawing cannot drift apart.
type Card struct {
	Participant Participant
	Width       float64
	ImageHeight float64
	TextGap     float64
	Fields      []FieldBlock
	// BodyHeight covers the image and all text fields.
	BodyHeight float64

	Table          *TableLayout
	TableTopMargin float64
	// TableOffset is the distance from the card top to the table top.
	TableOffset float64
	// TableErr is set when table_data was present but malformed.
	TableErr error

	BorderWidth float64
}

// CardMetrics summarises the vertical extent of a card
type CardMetrics struct {
	ContentHeight  float64
	TableHeight    float64
	TableTopMargin float64
	BorderWidth    float64
}

// LayoutCard measures one participant against cfg. It never caches: every
// call recomputes the layout from its inputs.
func LayoutCard(p Participant, cfg Config, m text.Measurer) *Card {
	colWidth := cfg.ColWidth()
	c := &Card{
		Participant: p,
		Width:       colWidth,
		ImageHeight: cfg.ImageHeight(),
		TextGap:     cfg.TextGap(),
		BorderWidth: cfg.ImageBorderWidth,
	}

	cursor := c.ImageHeight + c.TextGap
	for _, fs := range cfg.Fields {
		display := fs.Label + p.Value(fs.Key)
		block := FieldBlock{
			Style:    fs,
			Lines:    text.Wrap(display, fs.Font, fs.Size, colWidth-4, m),
			Baseline: cursor,
		}
		c.Fields = append(c.Fields, block)
		cursor += block.Height()
	}
	c.BodyHeight = cursor

	if raw, ok := p[KeyTableData]; ok {
		rows, err := FormatTable(raw, cfg, m)
		c.TableErr = err
		if t := LayoutTable(rows, cfg); t != nil {
			c.Table = t
			c.TableTopMargin = cfg.TableTopMargin
			c.TableOffset = c.BodyHeight + c.TableTopMargin
		}
	}
	return c
}

// ComputeHeight returns the total height of the participant's card
func ComputeHeight(p Participant, cfg Config, m text.Measurer) float64 {
	return LayoutCard(p, cfg, m).Height()
}

// Height is the total vertical extent of the card
func (c *Card) Height() float64 {
	h := c.BodyHeight
	if c.Table != nil {
		h = c.TableOffset + c.Table.Height
	}
	return h + c.BorderWidth
}

// Metrics summarises the card
func (c *Card) Metrics() CardMetrics {
	m := CardMetrics{
		ContentHeight:  c.BodyHeight,
		TableTopMargin: c.TableTopMargin,
		BorderWidth:    c.BorderWidth,
	}
	if c.Table != nil {
		m.TableHeight = c.Table.Height
	}
	return m
}

// alignTable moves the table down so it starts below a body of the given
// height. Tables never move up.
func (c *Card) alignTable(body float64) {
	if c.Table == nil || body <= c.BodyHeight {
		return
	}
	c.TableOffset = body + c.TableTopMargin
}
