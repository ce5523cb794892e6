package style

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an 8-bit RGB colour
type Color struct {
	R, G, B int
}

var (
	Black = Color{0, 0, 0}
	Gray  = Color{128, 128, 128}
	White = Color{255, 255, 255}
)

var namedColors = map[string]Color{
	"black": Black,
	"gray":  Gray,
	"grey":  Gray,
	"white": White,
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
}

// ParseColor parses a colour name, #RGB / #RRGGBB, or rgb(r,g,b)
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if strings.HasPrefix(v, "#") {
		if r, g, b, ok := parseHexColor(v); ok {
			return Color{r, g, b}, nil
		}
		return Color{}, fmt.Errorf("invalid hex colour %q", value)
	}

	var r, g, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(v, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return Color{}, fmt.Errorf("rgb component out of range in %q", value)
		}
		return Color{r, g, b}, nil
	}
	return Color{}, fmt.Errorf("unknown colour %q", value)
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 6:
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	default:
		return 0, 0, 0, false
	}
	rv, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	gv, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	bv, err := strconv.ParseUint(s[4:6], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(rv), int(gv), int(bv), true
}

// UnmarshalText lets colours be written as strings in JSON documents
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML lets colours be written as strings in YAML documents
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: colour must be a string: %w", node.Line, err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalText writes the colour as #RRGGBB
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
