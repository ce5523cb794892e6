package api

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"

	"github.com/gompdf/cardgrid/internal/layout"
	"github.com/gompdf/cardgrid/internal/pagination"
	"github.com/gompdf/cardgrid/internal/render/pdf"
	"github.com/gompdf/cardgrid/internal/res"
	"github.com/gompdf/cardgrid/internal/style"
)

// Re-exported model types
type (
	Participant = layout.Participant
	TableEntry  = layout.TableEntry
	TableData   = layout.TableData
	HeaderItem  = style.HeaderItem
	MetaItem    = style.MetaItem
	HeaderStyle = style.HeaderStyle
	MetaStyle   = style.MetaStyle
	TableStyle  = style.TableStyle
	FieldStyle  = style.FieldStyle
	Color       = style.Color
	FontSpec    = pdf.FontSpec
	Page        = pagination.Page
)

// Generator is the main API for producing card sheets. It is immutable:
// every setter returns a new Generator.
type Generator struct {
	options Options
	loader  *res.Loader
	now     func() time.Time
}

// New creates a new generator with default options
func New() *Generator {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new generator with the specified options
func NewWithOptions(options Options) *Generator {
	loader := res.NewLoader(options.ImageDir)
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	return &Generator{
		options: options,
		loader:  loader,
		now:     time.Now,
	}
}

// Options returns a copy of the generator's options
func (g *Generator) Options() Options {
	return g.options
}

// LayoutConfig builds the layout configuration the options describe. The
// page dimensions are swapped only when an orientation is set and the size
// does not match it.
func (o Options) LayoutConfig() layout.Config {
	width, height := o.pageDimensions()
	return layout.Config{
		PageWidth:        width,
		PageHeight:       height,
		MarginTop:        o.MarginTop,
		MarginRight:      o.MarginRight,
		MarginBottom:     o.MarginBottom,
		MarginLeft:       o.MarginLeft,
		Columns:          o.Columns,
		GridGapX:         o.GridGapX,
		GridGapY:         o.GridGapY,
		ImageAspectRatio: o.ImageAspectRatio,
		ImageBorderWidth: o.ImageBorderWidth,
		TextGapBuffer:    o.TextGapBuffer,
		TableTopMargin:   o.TableTopMargin,
		AlignTableRows:   o.AlignTableRows,
		Table:            o.TableOpts,
		Fields:           append([]FieldStyle(nil), o.ParticipantStyle...),
		Header:           o.HeaderStyle,
		Meta:             o.MetaStyle,
	}
}

func (o Options) pageDimensions() (float64, float64) {
	width, height := o.PageWidth, o.PageHeight
	switch o.PageOrientation {
	case PageOrientationLandscape:
		if width < height {
			width, height = height, width
		}
	case PageOrientationPortrait:
		if width > height {
			width, height = height, width
		}
	}
	return width, height
}

func (g *Generator) logger() *ll.Logger {
	if g.options.Logger != nil {
		return g.options.Logger
	}
	logger := ll.New("cardgrid").Handler(lh.NewTextHandler(os.Stderr))
	logger.Enable()
	return logger
}

// Render lays out and draws the participants into a new document without
// writing it. It returns the document and the pages the layout produced.
func (g *Generator) Render(participants []Participant, header []HeaderItem, meta []MetaItem) (*pdf.Document, []*Page, error) {
	cfg := g.options.LayoutConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := g.logger()

	if g.options.Debug {
		logger.Infof("page %.2f x %.2f, %d columns of %.2f, %d participants",
			cfg.PageWidth, cfg.PageHeight, cfg.Columns, cfg.ColWidth(), len(participants))
	}

	doc := pdf.NewDocument(cfg, pdf.Options{
		RenderOptions: pdf.RenderOptions{
			Title:    g.options.Title,
			Author:   g.options.Author,
			Subject:  g.options.Subject,
			Keywords: g.options.Keywords,
			Creator:  "cardgrid",
			Producer: "cardgrid",
		},
		Fonts:    []FontSpec{g.options.FontRegular, g.options.FontBold},
		Images:   g.loader,
		Resample: g.options.EnableImageResampling,
		DPI:      g.options.ResamplingDPI,
		Logger:   logger,
		Debug:    g.options.Debug,
	})

	engine, err := pagination.NewEngine(cfg, doc, pagination.Options{
		Header: header,
		Meta:   meta,
		Now:    g.now,
		Logger: logger,
		Debug:  g.options.Debug,
	})
	if err != nil {
		return nil, nil, err
	}
	pages := engine.Paginate(participants)

	if g.options.Debug {
		logger.Infof("laid out %d pages", len(pages))
	}
	return doc, pages, nil
}

// Generate renders the participants and writes the PDF to outputPath
func (g *Generator) Generate(participants []Participant, header []HeaderItem, meta []MetaItem, outputPath string) error {
	doc, _, err := g.Render(participants, header, meta)
	if err != nil {
		return err
	}
	if err := doc.OutputFile(outputPath); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// GenerateTo renders the participants and writes the PDF to w
func (g *Generator) GenerateTo(participants []Participant, header []HeaderItem, meta []MetaItem, w io.Writer) error {
	doc, _, err := g.Render(participants, header, meta)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// GenerateFile reads participants from a JSON file in the given charset
// (empty for UTF-8) and writes the PDF to outputPath.
func (g *Generator) GenerateFile(dataPath, charset string, header []HeaderItem, meta []MetaItem, outputPath string) error {
	participants, err := LoadParticipants(dataPath, charset)
	if err != nil {
		return err
	}
	return g.Generate(participants, header, meta, outputPath)
}

// LoadParticipants reads a participants JSON file
func LoadParticipants(path, charset string) ([]Participant, error) {
	ps, err := res.NewLoader("").LoadParticipants(path, charset)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	return ps, nil
}

// RunJob executes a job file description
func RunJob(job *Job) error {
	options, err := job.Options()
	if err != nil {
		return err
	}
	return NewWithOptions(options).GenerateFile(job.Data, job.Charset, job.Header, job.Meta, job.Output)
}

// WithOptions returns a new generator with the specified options
func (g *Generator) WithOptions(options Options) *Generator {
	return g.derive(options)
}

// WithOption returns a new generator with the specified option set
func (g *Generator) WithOption(option Option) *Generator {
	newOptions := g.options
	option(&newOptions)
	return g.derive(newOptions)
}

// WithOverrides returns a new generator with the overrides applied
func (g *Generator) WithOverrides(ov Overrides) *Generator {
	return g.WithOption(WithOverrides(ov))
}

// AddResourcePath adds a path to search for images
func (g *Generator) AddResourcePath(path string) *Generator {
	newOptions := g.options
	newOptions.ResourcePaths = append(append([]string(nil), newOptions.ResourcePaths...), path)
	return g.derive(newOptions)
}

// SetPageSize sets the page size
func (g *Generator) SetPageSize(width, height float64) *Generator {
	return g.WithOption(WithPageSize(width, height))
}

// SetMargins sets the page margins
func (g *Generator) SetMargins(top, right, bottom, left float64) *Generator {
	return g.WithOption(WithMargins(top, right, bottom, left))
}

// SetColumns sets the number of card columns
func (g *Generator) SetColumns(columns int) *Generator {
	return g.WithOption(WithColumns(columns))
}

// SetDebug sets the debug mode
func (g *Generator) SetDebug(debug bool) *Generator {
	return g.WithOption(WithDebug(debug))
}

// SetTitle sets the document title
func (g *Generator) SetTitle(title string) *Generator {
	return g.WithOption(WithTitle(title))
}

func (g *Generator) derive(options Options) *Generator {
	n := NewWithOptions(options)
	n.now = g.now
	return n
}
