package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"github.com/olekukonko/ll"

	"github.com/gompdf/cardgrid/internal/layout"
	"github.com/gompdf/cardgrid/internal/pagination"
	"github.com/gompdf/cardgrid/internal/res"
	"github.com/gompdf/cardgrid/internal/style"
)

// Missing images are marked with this label
const (
	noImageLabel  = "No Image"
	noImageSize   = 8
	noImageOffset = 20
)

// RenderOptions contains document metadata
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// Options configures a Document
type Options struct {
	RenderOptions

	Fonts []FontSpec
	// Images resolves portrait references; nil draws every card without image.
	Images   res.ImageResolver
	Resample bool
	DPI      float64

	Logger *ll.Logger
	Debug  bool
}

// Document is an fpdf-backed drawing surface for the pagination engine.
// Layout coordinates have their origin at the bottom-left page corner; the
// conversion to fpdf's top-left origin happens only here.
type Document struct {
	pdf     *fpdf.Fpdf
	cfg     layout.Config
	fonts   *FontRegistry
	options Options
	logger  *ll.Logger

	// images already embedded, keyed by resolver name
	images map[string]string
}

var _ pagination.Surface = (*Document)(nil)

// NewDocument creates an empty document sized to cfg and registers the
// configured fonts. Font failures are logged and fall back to Helvetica.
func NewDocument(cfg layout.Config, options Options) *Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)

	logger := options.Logger
	if logger == nil {
		logger = ll.New("pdf")
		logger.Disable()
	}

	d := &Document{
		pdf:     pdf,
		cfg:     cfg,
		fonts:   NewFontRegistry(pdf, logger),
		options: options,
		logger:  logger,
		images:  make(map[string]string),
	}
	for _, spec := range options.Fonts {
		if err := d.fonts.Register(spec); err != nil {
			logger.Warnf("%v", err)
		} else if options.Debug {
			logger.Debugf("registered font %s from %s", spec.Name, spec.Path)
		}
	}
	pdf.SetFont(FontHelvetica, "", 12)
	return d
}

// Fonts exposes the font registry of the document
func (d *Document) Fonts() *FontRegistry { return d.fonts }

// fy converts a bottom-origin y coordinate to fpdf's top-origin one
func (d *Document) fy(y float64) float64 {
	return d.cfg.PageHeight - y
}

func (d *Document) setFont(name string, size float64) Face {
	face := d.fonts.Resolve(name)
	d.pdf.SetFont(face.Family, face.Style, size)
	return face
}

// StringWidth measures s in the named font at size points
func (d *Document) StringWidth(font string, size float64, s string) float64 {
	face := d.setFont(font, size)
	return d.pdf.GetStringWidth(d.fonts.Encode(face, s))
}

// AddPage starts a new page
func (d *Document) AddPage() {
	d.pdf.AddPage()
}

// DrawText draws one line of text anchored at (t.X, t.Y) according to t.Align
func (d *Document) DrawText(t pagination.Text) {
	if t.Content == "" {
		return
	}
	face := d.setFont(t.Font, t.Size)
	s := d.fonts.Encode(face, t.Content)
	x := t.X
	switch t.Align {
	case style.AlignCenter:
		x -= d.pdf.GetStringWidth(s) / 2
	case style.AlignRight:
		x -= d.pdf.GetStringWidth(s)
	}
	d.pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)
	d.pdf.Text(x, d.fy(t.Y), s)
}

// DrawCard draws a measured card with its top-left corner at (x, top): the
// image box, the wrapped text fields and the key/value table.
func (d *Document) DrawCard(x, top float64, card *layout.Card) {
	d.drawImage(x, top, card)
	d.drawFields(x, top, card)
	d.drawTable(x, top, card)
}

func (d *Document) drawImage(x, top float64, card *layout.Card) {
	box := card.ImageBox(x, top)
	name, err := d.embedImage(card)
	if err != nil {
		d.logger.Warnf("participant %s: %v", card.Participant.Label(), err)
	}
	if name != "" {
		d.pdf.ImageOptions(name, box.X, d.fy(box.Top()), box.Width, box.Height, false,
			fpdf.ImageOptions{ImageType: d.images[name]}, 0, "")
	} else {
		d.pdf.SetFont(FontHelvetica, "", noImageSize)
		d.pdf.SetTextColor(style.Black.R, style.Black.G, style.Black.B)
		d.pdf.Text(x, d.fy(top-noImageOffset), noImageLabel)
	}
	d.strokeRect(box, card.BorderWidth, style.Black)
}

// embedImage resolves the card's portrait and registers it with the
// document. An empty name means the card has no drawable image.
func (d *Document) embedImage(card *layout.Card) (string, error) {
	ref := card.Participant.Portrait()
	if ref == "" || d.options.Images == nil {
		return "", nil
	}
	tw, th := res.TargetPixels(card.Width, card.ImageHeight, d.options.DPI)
	img, err := d.options.Images.Resolve(ref, tw, th, d.options.Resample, d.options.DPI)
	if err != nil {
		return "", err
	}
	if _, ok := d.images[img.Name]; ok {
		return img.Name, nil
	}
	d.pdf.RegisterImageOptionsReader(img.Name, fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if d.pdf.Err() {
		err := d.pdf.Error()
		d.pdf.ClearError()
		return "", fmt.Errorf("embedding image %s: %w", ref, err)
	}
	if d.options.Debug && img.Resampled {
		d.logger.Debugf("resampled %s to %dx%d", ref, img.Width, img.Height)
	}
	d.images[img.Name] = img.Type
	return img.Name, nil
}

func (d *Document) drawFields(x, top float64, card *layout.Card) {
	for _, block := range card.Fields {
		fs := block.Style
		face := d.setFont(fs.Font, fs.Size)
		d.pdf.SetTextColor(fs.Color.R, fs.Color.G, fs.Color.B)
		y := top - block.Baseline
		for _, line := range block.Lines {
			if line != "" {
				d.pdf.Text(x, d.fy(y), d.fonts.Encode(face, line))
			}
			y -= fs.LineHeight()
		}
	}
}

func (d *Document) drawTable(x, top float64, card *layout.Card) {
	box, ok := card.TableBox(x, top)
	if !ok {
		return
	}
	ts := d.cfg.Table
	inset := layout.TableCellInset / 2.0
	for _, row := range card.Table.Rows {
		rowTop := box.Top() - row.Top
		keyCell := layout.Box{X: box.X, Y: rowTop - row.Height, Width: card.Table.KeyWidth, Height: row.Height}
		valueCell := layout.Box{X: box.X + card.Table.KeyWidth, Y: keyCell.Y, Width: card.Table.ValueWidth, Height: row.Height}
		d.strokeRect(keyCell, ts.BorderWidth, ts.BorderColor)
		d.strokeRect(valueCell, ts.BorderWidth, ts.BorderColor)

		face := d.setFont(ts.Font, ts.Size)
		d.pdf.SetTextColor(ts.TextColor.R, ts.TextColor.G, ts.TextColor.B)
		d.cellText(face, keyCell.X+inset, rowTop-ts.Padding-ts.Size, row.KeyLines, ts.LineHeight())
		d.cellText(face, valueCell.X+inset, rowTop-ts.Padding-ts.Size, row.ValueLines, ts.LineHeight())
	}
}

func (d *Document) cellText(face Face, x, baseline float64, lines []string, leading float64) {
	for i, line := range lines {
		if line == "" {
			continue
		}
		d.pdf.Text(x, d.fy(baseline-float64(i)*leading), d.fonts.Encode(face, line))
	}
}

// strokeRect outlines b; a zero width draws nothing
func (d *Document) strokeRect(b layout.Box, width float64, c style.Color) {
	if width <= 0 {
		return
	}
	d.pdf.SetLineWidth(width)
	d.pdf.SetDrawColor(c.R, c.G, c.B)
	d.pdf.Rect(b.X, d.fy(b.Top()), b.Width, b.Height, "D")
}

// Output finalises the document and writes it to w
func (d *Document) Output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// OutputFile finalises the document and writes it to path, creating the
// parent directory if needed.
func (d *Document) OutputFile(path string) error {
	outputDir := filepath.Dir(path)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
