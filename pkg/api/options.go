package api

import (
	"path/filepath"

	"github.com/olekukonko/ll"

	"github.com/gompdf/cardgrid/internal/render/pdf"
	"github.com/gompdf/cardgrid/internal/style"
)

// Logical names of the two embedded fonts
const (
	FontNameRegular = "NotoRegular"
	FontNameBold    = "NotoBold"
)

// Options represents configuration options for the card sheet generator
type Options struct {
	// Page dimensions
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape. Empty uses the page size as
	// given.
	PageOrientation PageOrientation

	// Page margins
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// Grid
	Columns          int
	GridGapX         float64
	GridGapY         float64
	ImageAspectRatio float64
	ImageBorderWidth float64

	// Vertical spacing inside a card
	TextGapBuffer  float64
	TableTopMargin float64
	// AlignTableRows starts all tables of a row at the same height
	AlignTableRows bool

	// Image handling
	EnableImageResampling bool
	ResamplingDPI         float64
	// ImageDir is where relative portrait references are looked up
	ImageDir      string
	ResourcePaths []string

	// Fonts
	FontRegular FontSpec
	FontBold    FontSpec

	// Styles
	HeaderStyle      HeaderStyle
	MetaStyle        MetaStyle
	TableOpts        TableStyle
	ParticipantStyle []FieldStyle

	// Debug enables debug logging
	Debug bool
	// Logger receives warnings and debug output; nil logs to stderr
	Logger *ll.Logger

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		// A4
		PageWidth:  PageSizeA4Width,
		PageHeight: PageSizeA4Height,

		MarginTop:    30,
		MarginRight:  30,
		MarginBottom: 30,
		MarginLeft:   30,

		Columns:          4,
		GridGapX:         15,
		GridGapY:         15,
		ImageAspectRatio: 3.5 / 4.5,
		ImageBorderWidth: 1,

		TextGapBuffer:  4,
		TableTopMargin: 2,

		EnableImageResampling: true,
		ResamplingDPI:         200,
		ImageDir:              "img",
		ResourcePaths:         []string{},

		FontRegular: FontSpec{Name: FontNameRegular, Path: filepath.Join("fonts", "NotoSansSC-Regular.ttf")},
		FontBold:    FontSpec{Name: FontNameBold, Path: filepath.Join("fonts", "NotoSansSC-Bold.ttf"), Bold: true},

		HeaderStyle: HeaderStyle{
			Font:          FontNameBold,
			Size:          12,
			Align:         style.AlignCenter,
			Color:         style.Black,
			BottomPadding: 10,
		},
		MetaStyle: MetaStyle{
			Font:     pdf.FontHelvetica,
			Size:     10,
			Color:    style.Black,
			Position: 1,
			Padding:  10,
		},
		TableOpts: TableStyle{
			KeyColRatio: 0.4,
			Font:        FontNameRegular,
			Size:        9,
			TextColor:   style.Black,
			BorderColor: style.Black,
			BorderWidth: 1,
			Padding:     2,
		},
		ParticipantStyle: []FieldStyle{
			{Key: "name", Font: FontNameBold, Size: 13, Color: style.Black, Padding: 2},
			{Key: "line1", Font: FontNameRegular, Size: 11, Color: style.Black, Padding: 0},
		},
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithColumns sets the number of card columns
func WithColumns(columns int) Option {
	return func(o *Options) {
		o.Columns = columns
	}
}

// WithGridGap sets the horizontal and vertical gap between cards
func WithGridGap(x, y float64) Option {
	return func(o *Options) {
		o.GridGapX = x
		o.GridGapY = y
	}
}

// WithImageAspectRatio sets the width/height ratio of the image box
func WithImageAspectRatio(ratio float64) Option {
	return func(o *Options) {
		o.ImageAspectRatio = ratio
	}
}

// WithResampling enables or disables image downsampling at dpi
func WithResampling(enabled bool, dpi float64) Option {
	return func(o *Options) {
		o.EnableImageResampling = enabled
		o.ResamplingDPI = dpi
	}
}

// WithImageDir sets the directory portrait references are relative to
func WithImageDir(dir string) Option {
	return func(o *Options) {
		o.ImageDir = dir
	}
}

// WithResourcePath adds a path to search for images
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithFonts sets the regular and bold font files
func WithFonts(regular, bold FontSpec) Option {
	return func(o *Options) {
		o.FontRegular = regular
		o.FontBold = bold
		o.FontBold.Bold = true
	}
}

// WithParticipantStyle replaces the card text fields
func WithParticipantStyle(fields ...FieldStyle) Option {
	return func(o *Options) {
		o.ParticipantStyle = append([]FieldStyle(nil), fields...)
	}
}

// WithTableOptions sets the key/value table style
func WithTableOptions(t TableStyle) Option {
	return func(o *Options) {
		o.TableOpts = t
	}
}

// WithAlignTableRows aligns the tables of each row
func WithAlignTableRows(align bool) Option {
	return func(o *Options) {
		o.AlignTableRows = align
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger warnings and debug output go to
func WithLogger(logger *ll.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithOverrides applies a set of overrides
func WithOverrides(ov Overrides) Option {
	return func(o *Options) {
		ov.Apply(o)
	}
}

// Standard page sizes in points (1/72 inch)
const (
	// A series
	PageSizeA0Width  = 2383.94
	PageSizeA0Height = 3370.39
	PageSizeA1Width  = 1683.78
	PageSizeA1Height = 2383.94
	PageSizeA2Width  = 1190.55
	PageSizeA2Height = 1683.78
	PageSizeA3Width  = 841.8898
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.2756
	PageSizeA4Height = 841.8898
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.2756
	PageSizeA6Width  = 297.64
	PageSizeA6Height = 419.53

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// PageSizes maps page size names to portrait dimensions
var PageSizes = map[string][2]float64{
	"a0":     {PageSizeA0Width, PageSizeA0Height},
	"a1":     {PageSizeA1Width, PageSizeA1Height},
	"a2":     {PageSizeA2Width, PageSizeA2Height},
	"a3":     {PageSizeA3Width, PageSizeA3Height},
	"a4":     {PageSizeA4Width, PageSizeA4Height},
	"a5":     {PageSizeA5Width, PageSizeA5Height},
	"a6":     {PageSizeA6Width, PageSizeA6Height},
	"letter": {PageSizeLetterWidth, PageSizeLetterHeight},
	"legal":  {PageSizeLegalWidth, PageSizeLegalHeight},
}

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}
