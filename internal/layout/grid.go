package layout

import "github.com/gompdf/cardgrid/internal/text"

// Row is one horizontal group of measured cards
type Row struct {
	Cards  []*Card
	Height float64
}

// Partition splits participants into rows of at most columns entries
func Partition(participants []Participant, columns int) [][]Participant {
	if columns <= 0 {
		return nil
	}
	rows := make([][]Participant, 0, (len(participants)+columns-1)/columns)
	for i := 0; i < len(participants); i += columns {
		end := min(i+columns, len(participants))
		rows = append(rows, participants[i:end])
	}
	return rows
}

// LayoutRow measures every card of a row. The row height is the tallest
// card, image, text and table together.
func LayoutRow(participants []Participant, cfg Config, m text.Measurer) Row {
	row := Row{Cards: make([]*Card, 0, len(participants))}
	body := 0.0
	for _, p := range participants {
		c := LayoutCard(p, cfg, m)
		row.Cards = append(row.Cards, c)
		body = max(body, c.BodyHeight)
	}
	for _, c := range row.Cards {
		if cfg.AlignTableRows {
			c.alignTable(body)
		}
		row.Height = max(row.Height, c.Height())
	}
	return row
}
