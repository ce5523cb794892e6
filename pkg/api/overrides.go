package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/cardgrid/internal/style"
)

// ErrUnknownOverride is returned for override keys outside the supported set
var ErrUnknownOverride = errors.New("unknown override key")

// Overrides is the closed set of options a caller or job file may change.
// Nil fields keep their default. Style blocks are merged key by key: only
// the keys present in the override replace the default, and an explicit
// zero is kept.
type Overrides struct {
	MarginTop    *float64 `yaml:"margin_top,omitempty" json:"margin_top,omitempty"`
	MarginBottom *float64 `yaml:"margin_bottom,omitempty" json:"margin_bottom,omitempty"`
	MarginLeft   *float64 `yaml:"margin_left,omitempty" json:"margin_left,omitempty"`
	MarginRight  *float64 `yaml:"margin_right,omitempty" json:"margin_right,omitempty"`

	Columns        *int     `yaml:"columns,omitempty" json:"columns,omitempty"`
	ImgAspectRatio *float64 `yaml:"img_aspect_ratio,omitempty" json:"img_aspect_ratio,omitempty"`
	GridGapX       *float64 `yaml:"grid_gap_x,omitempty" json:"grid_gap_x,omitempty"`
	GridGapY       *float64 `yaml:"grid_gap_y,omitempty" json:"grid_gap_y,omitempty"`
	ImgBorderWidth *float64 `yaml:"img_border_width,omitempty" json:"img_border_width,omitempty"`

	EnableImageResampling *bool    `yaml:"enable_image_resampling,omitempty" json:"enable_image_resampling,omitempty"`
	ResamplingDPI         *float64 `yaml:"resampling_dpi,omitempty" json:"resampling_dpi,omitempty"`
	ImageDir              *string  `yaml:"image_dir,omitempty" json:"image_dir,omitempty"`

	FontRegular *FontSpec `yaml:"font_regular,omitempty" json:"font_regular,omitempty"`
	FontBold    *FontSpec `yaml:"font_bold,omitempty" json:"font_bold,omitempty"`

	HeaderStyle      *HeaderStyleOverride `yaml:"header_style,omitempty" json:"header_style,omitempty"`
	TableOpts        *TableStyleOverride  `yaml:"table_opts,omitempty" json:"table_opts,omitempty"`
	ParticipantStyle []FieldStyle         `yaml:"participant_style,omitempty" json:"participant_style,omitempty"`

	TextGapBuffer  *float64 `yaml:"text_gap_buffer,omitempty" json:"text_gap_buffer,omitempty"`
	TableTopMargin *float64 `yaml:"table_top_margin,omitempty" json:"table_top_margin,omitempty"`
	AlignTablesRow *bool    `yaml:"align_tables_row,omitempty" json:"align_tables_row,omitempty"`
}

// HeaderStyleOverride holds the header_style keys an override sets
type HeaderStyleOverride struct {
	Font          *string      `yaml:"font,omitempty" json:"font,omitempty"`
	Size          *float64     `yaml:"size,omitempty" json:"size,omitempty"`
	Align         *style.Align `yaml:"align,omitempty" json:"align,omitempty"`
	Color         *Color       `yaml:"color,omitempty" json:"color,omitempty"`
	BottomPadding *float64     `yaml:"bottom_padding,omitempty" json:"bottom_padding,omitempty"`
}

// TableStyleOverride holds the table_opts keys an override sets
type TableStyleOverride struct {
	KeyColRatio *float64 `yaml:"key_col_ratio,omitempty" json:"key_col_ratio,omitempty"`
	Font        *string  `yaml:"font,omitempty" json:"font,omitempty"`
	Size        *float64 `yaml:"size,omitempty" json:"size,omitempty"`
	TextColor   *Color   `yaml:"text_color,omitempty" json:"text_color,omitempty"`
	BorderColor *Color   `yaml:"border_color,omitempty" json:"border_color,omitempty"`
	BorderWidth *float64 `yaml:"border_width,omitempty" json:"border_width,omitempty"`
	Padding     *float64 `yaml:"padding,omitempty" json:"padding,omitempty"`
}

// OverrideKeys lists every accepted override key
func OverrideKeys() []string {
	t := reflect.TypeOf(Overrides{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		keys = append(keys, name)
	}
	return keys
}

// Apply writes every set override into o
func (ov Overrides) Apply(o *Options) {
	set(&o.MarginTop, ov.MarginTop)
	set(&o.MarginBottom, ov.MarginBottom)
	set(&o.MarginLeft, ov.MarginLeft)
	set(&o.MarginRight, ov.MarginRight)
	set(&o.Columns, ov.Columns)
	set(&o.ImageAspectRatio, ov.ImgAspectRatio)
	set(&o.GridGapX, ov.GridGapX)
	set(&o.GridGapY, ov.GridGapY)
	set(&o.ImageBorderWidth, ov.ImgBorderWidth)
	set(&o.EnableImageResampling, ov.EnableImageResampling)
	set(&o.ResamplingDPI, ov.ResamplingDPI)
	set(&o.ImageDir, ov.ImageDir)
	if ov.FontRegular != nil {
		o.FontRegular = *ov.FontRegular
	}
	if ov.FontBold != nil {
		o.FontBold = *ov.FontBold
		o.FontBold.Bold = true
	}
	if ov.HeaderStyle != nil {
		ov.HeaderStyle.apply(&o.HeaderStyle)
	}
	if ov.TableOpts != nil {
		ov.TableOpts.apply(&o.TableOpts)
	}
	if ov.ParticipantStyle != nil {
		o.ParticipantStyle = append([]FieldStyle(nil), ov.ParticipantStyle...)
	}
	set(&o.TextGapBuffer, ov.TextGapBuffer)
	set(&o.TableTopMargin, ov.TableTopMargin)
	set(&o.AlignTableRows, ov.AlignTablesRow)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (h *HeaderStyleOverride) apply(dst *HeaderStyle) {
	set(&dst.Font, h.Font)
	set(&dst.Size, h.Size)
	set(&dst.Align, h.Align)
	set(&dst.Color, h.Color)
	set(&dst.BottomPadding, h.BottomPadding)
}

func (t *TableStyleOverride) apply(dst *TableStyle) {
	set(&dst.KeyColRatio, t.KeyColRatio)
	set(&dst.Font, t.Font)
	set(&dst.Size, t.Size)
	set(&dst.TextColor, t.TextColor)
	set(&dst.BorderColor, t.BorderColor)
	set(&dst.BorderWidth, t.BorderWidth)
	set(&dst.Padding, t.Padding)
}

// ParseOverrides reads overrides from YAML (or JSON) text. Keys outside the
// supported set are rejected with ErrUnknownOverride.
func ParseOverrides(r io.Reader) (Overrides, error) {
	var ov Overrides
	data, err := io.ReadAll(r)
	if err != nil {
		return ov, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return ov, fmt.Errorf("parsing overrides: %w", err)
	}
	if len(node.Content) == 0 {
		return ov, nil
	}
	if err := checkOverrideKeys(node.Content[0]); err != nil {
		return ov, err
	}
	if err := decodeStrict(data, &ov); err != nil {
		return ov, fmt.Errorf("parsing overrides: %w", err)
	}
	return ov, nil
}

// OverridesFromMap converts a generic key/value mapping into Overrides
func OverridesFromMap(m map[string]any) (Overrides, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return Overrides{}, fmt.Errorf("encoding overrides: %w", err)
	}
	return ParseOverrides(bytes.NewReader(data))
}

// checkOverrideKeys validates the top-level keys of an overrides mapping
func checkOverrideKeys(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("overrides must be a mapping (line %d)", node.Line)
	}
	known := make(map[string]bool)
	for _, k := range OverrideKeys() {
		known[k] = true
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !known[key] {
			return fmt.Errorf("%w: %q (line %d)", ErrUnknownOverride, key, node.Content[i].Line)
		}
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
