package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/olekukonko/ll"
	"golang.org/x/image/font/sfnt"
)

// Core font names every PDF reader provides
const (
	FontHelvetica     = "Helvetica"
	FontHelveticaBold = "Helvetica-Bold"
)

// Face is a font as the fpdf document knows it
type Face struct {
	Family string
	Style  string
	// UTF8 is set for embedded TrueType fonts; core fonts take cp1252 text.
	UTF8 bool
}

// FontSpec names a TrueType font file to embed under a logical name
type FontSpec struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
	// Bold selects Helvetica-Bold instead of Helvetica as fallback.
	Bold bool `yaml:"bold,omitempty" json:"bold,omitempty"`
}

var coreFaces = map[string]Face{
	"helvetica":             {Family: "Helvetica"},
	"helvetica-bold":        {Family: "Helvetica", Style: "B"},
	"helvetica-oblique":     {Family: "Helvetica", Style: "I"},
	"helvetica-boldoblique": {Family: "Helvetica", Style: "BI"},
	"times-roman":           {Family: "Times"},
	"times":                 {Family: "Times"},
	"times-bold":            {Family: "Times", Style: "B"},
	"times-italic":          {Family: "Times", Style: "I"},
	"times-bolditalic":      {Family: "Times", Style: "BI"},
	"courier":               {Family: "Courier"},
	"courier-bold":          {Family: "Courier", Style: "B"},
	"courier-oblique":       {Family: "Courier", Style: "I"},
	"courier-boldoblique":   {Family: "Courier", Style: "BI"},
	"symbol":                {Family: "Symbol"},
	"zapfdingbats":          {Family: "ZapfDingbats"},
}

var errNotTrueType = errors.New("only TrueType outlines can be embedded")

// FontRegistry maps logical font names to faces of one fpdf document. Once a
// name is resolved its face never changes for the rest of the run.
type FontRegistry struct {
	pdf    *fpdf.Fpdf
	faces  map[string]Face
	encode func(string) string
	logger *ll.Logger
}

// NewFontRegistry creates a registry bound to pdf
func NewFontRegistry(pdf *fpdf.Fpdf, logger *ll.Logger) *FontRegistry {
	return &FontRegistry{
		pdf:    pdf,
		faces:  make(map[string]Face),
		encode: pdf.UnicodeTranslatorFromDescriptor(""),
		logger: logger,
	}
}

// Register embeds the TrueType font at path under name. A core font name
// without a path binds the core face. On failure the name
// is bound to a core Helvetica face instead and the error is returned for
// the caller to report.
func (r *FontRegistry) Register(spec FontSpec) error {
	if face, ok := coreFaces[strings.ToLower(spec.Name)]; ok && spec.Path == "" {
		r.faces[spec.Name] = face
		return nil
	}
	if err := r.embed(spec); err != nil {
		fallback := FontHelvetica
		if spec.Bold {
			fallback = FontHelveticaBold
		}
		r.faces[spec.Name] = coreFaces[strings.ToLower(fallback)]
		return fmt.Errorf("font %q from %q: %w; using %s", spec.Name, spec.Path, err, fallback)
	}
	r.faces[spec.Name] = Face{Family: spec.Name, UTF8: true}
	return nil
}

func (r *FontRegistry) embed(spec FontSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("font has no name")
	}
	data, err := os.ReadFile(spec.Path)
	if err != nil {
		return err
	}
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return errNotTrueType
	}
	if _, err := sfnt.Parse(data); err != nil {
		return fmt.Errorf("invalid font file: %w", err)
	}
	r.pdf.AddUTF8FontFromBytes(spec.Name, "", data)
	if r.pdf.Err() {
		// fpdf errors are sticky; the document stays usable with the fallback
		err := r.pdf.Error()
		r.pdf.ClearError()
		return err
	}
	return nil
}

// Resolve returns the face for a logical or core font name. Unknown names
// are bound to Helvetica (or Helvetica-Bold when the name mentions bold).
func (r *FontRegistry) Resolve(name string) Face {
	if face, ok := r.faces[name]; ok {
		return face
	}
	face, ok := coreFaces[strings.ToLower(name)]
	if !ok {
		fallback := FontHelvetica
		if strings.Contains(strings.ToLower(name), "bold") {
			fallback = FontHelveticaBold
		}
		face = coreFaces[strings.ToLower(fallback)]
		if r.logger != nil {
			r.logger.Warnf("unknown font %q, using %s", name, fallback)
		}
	}
	r.faces[name] = face
	return face
}

// Encode converts text into the byte form the face expects
func (r *FontRegistry) Encode(face Face, s string) string {
	if face.UTF8 {
		return s
	}
	return r.encode(s)
}
