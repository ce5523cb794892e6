package style

import (
	"fmt"
	"strings"
)

// Align is the horizontal anchoring of a line of text
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign normalises an alignment keyword. Empty input is left as is so
// that defaults can be applied later.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "left", "start":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	}
	return "", fmt.Errorf("unknown alignment %q", s)
}

// UnmarshalText validates alignment keywords in config files
func (a *Align) UnmarshalText(text []byte) error {
	parsed, err := ParseAlign(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FieldStyle is the rendering rule of one text field of a card
type FieldStyle struct {
	Key     string  `yaml:"key" json:"key"`
	Label   string  `yaml:"label" json:"label"`
	Font    string  `yaml:"font" json:"font"`
	Size    float64 `yaml:"size" json:"size"`
	Color   Color   `yaml:"color" json:"color"`
	Padding float64 `yaml:"padding" json:"padding"`
}

// LineHeight is the vertical advance of one wrapped line of the field
func (f FieldStyle) LineHeight() float64 {
	return f.Size * LineSpacing
}

// LineSpacing is the leading factor applied to every font size
const LineSpacing = 1.2

// TableStyle controls the key/value table drawn below the text fields
type TableStyle struct {
	KeyColRatio float64 `yaml:"key_col_ratio" json:"key_col_ratio"`
	Font        string  `yaml:"font" json:"font"`
	Size        float64 `yaml:"size" json:"size"`
	TextColor   Color   `yaml:"text_color" json:"text_color"`
	BorderColor Color   `yaml:"border_color" json:"border_color"`
	BorderWidth float64 `yaml:"border_width" json:"border_width"`
	Padding     float64 `yaml:"padding" json:"padding"`
}

// LineHeight is the leading of table cell text
func (t TableStyle) LineHeight() float64 {
	return t.Size * LineSpacing
}
