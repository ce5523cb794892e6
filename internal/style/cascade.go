package style

import (
	"strconv"
	"strings"
	"time"
)

// HeaderItem is one line of the document header. Zero-valued fields fall
// back to the header defaults.
type HeaderItem struct {
	Text          string   `yaml:"text" json:"text"`
	Font          string   `yaml:"font,omitempty" json:"font,omitempty"`
	Size          float64  `yaml:"size,omitempty" json:"size,omitempty"`
	Align         Align    `yaml:"align,omitempty" json:"align,omitempty"`
	Color         *Color   `yaml:"color,omitempty" json:"color,omitempty"`
	BottomPadding *float64 `yaml:"bottom_padding,omitempty" json:"bottom_padding,omitempty"`
}

// HeaderStyle holds the defaults every HeaderItem is layered over
type HeaderStyle struct {
	Font          string  `yaml:"font" json:"font"`
	Size          float64 `yaml:"size" json:"size"`
	Align         Align   `yaml:"align" json:"align"`
	Color         Color   `yaml:"color" json:"color"`
	BottomPadding float64 `yaml:"bottom_padding" json:"bottom_padding"`
}

// HeaderLine is a header item with every attribute resolved
type HeaderLine struct {
	Text string
	HeaderStyle
}

// Apply resolves item against the defaults in d
func (d HeaderStyle) Apply(item HeaderItem) HeaderLine {
	line := HeaderLine{Text: item.Text, HeaderStyle: d}
	if item.Font != "" {
		line.Font = item.Font
	}
	if item.Size > 0 {
		line.Size = item.Size
	}
	if item.Align != "" {
		line.Align = item.Align
	}
	if item.Color != nil {
		line.Color = *item.Color
	}
	if item.BottomPadding != nil {
		line.BottomPadding = *item.BottomPadding
	}
	return line
}

// MetaItem is a piece of running text anchored to the page on a 1-9 keypad grid:
//
//	7 8 9
//	4 5 6
//	1 2 3
type MetaItem struct {
	Text     string   `yaml:"text" json:"text"`
	Font     string   `yaml:"font,omitempty" json:"font,omitempty"`
	Size     float64  `yaml:"size,omitempty" json:"size,omitempty"`
	Color    *Color   `yaml:"color,omitempty" json:"color,omitempty"`
	Position int      `yaml:"position,omitempty" json:"position,omitempty"`
	Padding  *float64 `yaml:"padding,omitempty" json:"padding,omitempty"`
}

// MetaStyle holds the defaults of meta items
type MetaStyle struct {
	Font     string  `yaml:"font" json:"font"`
	Size     float64 `yaml:"size" json:"size"`
	Color    Color   `yaml:"color" json:"color"`
	Position int     `yaml:"position" json:"position"`
	Padding  float64 `yaml:"padding" json:"padding"`
}

// MetaLine is a meta item with every attribute resolved. Text is still the
// unexpanded template.
type MetaLine struct {
	Text string
	MetaStyle
}

// Apply resolves item against the defaults in d
func (d MetaStyle) Apply(item MetaItem) MetaLine {
	line := MetaLine{Text: item.Text, MetaStyle: d}
	if item.Font != "" {
		line.Font = item.Font
	}
	if item.Size > 0 {
		line.Size = item.Size
	}
	if item.Color != nil {
		line.Color = *item.Color
	}
	if item.Position != 0 {
		line.Position = item.Position
	}
	if item.Padding != nil {
		line.Padding = *item.Padding
	}
	return line
}

// ExpandTemplate substitutes {{dd}}, {{mm}}, {{yyyy}} and {{page}}
func ExpandTemplate(text string, now time.Time, page int) string {
	r := strings.NewReplacer(
		"{{dd}}", now.Format("02"),
		"{{mm}}", now.Format("01"),
		"{{yyyy}}", now.Format("2006"),
		"{{page}}", strconv.Itoa(page),
	)
	return r.Replace(text)
}
