package pagination

import (
	"fmt"
	"time"

	"github.com/olekukonko/ll"

	"github.com/gompdf/cardgrid/internal/layout"
	"github.com/gompdf/cardgrid/internal/style"
	"github.com/gompdf/cardgrid/internal/text"
)

// headerGap separates the last header line from the first card row
const headerGap = 20

// Text is one positioned line of overlay text. Y is the baseline.
type Text struct {
	X       float64
	Y       float64
	Content string
	Font    string
	Size    float64
	Color   style.Color
	Align   style.Align
}

// Surface is the drawing target the engine lays pages out onto
type Surface interface {
	text.Measurer
	// AddPage starts a new, empty page
	AddPage()
	DrawText(t Text)
	// DrawCard draws a measured card with its top-left corner at (x, top)
	DrawCard(x, top float64, card *layout.Card)
}

// Options represents options for the pagination engine
type Options struct {
	Header []style.HeaderItem
	Meta   []style.MetaItem
	// Now supplies the date used in meta templates; defaults to time.Now.
	Now    func() time.Time
	Logger *ll.Logger
	Debug  bool
}

// PlacedRow is a row of cards drawn at Y (the row top)
type PlacedRow struct {
	layout.Row
	Y float64
}

// Page is a record of what the engine placed on one page
type Page struct {
	Number int
	Rows   []PlacedRow
}

// Engine owns the vertical cursor and the page number while laying out one
// document.
type Engine struct {
	cfg     layout.Config
	surface Surface
	options Options

	cursorY     float64
	headerDrawn bool
	pages       []*Page
}

// NewEngine creates a new pagination engine. The configuration is validated
// here so that no drawing happens for an unusable configuration.
func NewEngine(cfg layout.Config, surface Surface, options Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, fmt.Errorf("pagination: nil surface")
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = ll.New("pagination")
		options.Logger.Disable()
	}
	return &Engine{cfg: cfg, surface: surface, options: options}, nil
}

// Paginate lays out all participants, drawing header, rows and meta text
// onto the surface, and returns a record of the emitted pages.
func (e *Engine) Paginate(participants []layout.Participant) []*Page {
	e.pages = nil
	e.newPage()
	e.drawHeader()

	index := 0
	for _, group := range layout.Partition(participants, e.cfg.Columns) {
		row := layout.LayoutRow(group, e.cfg, e.surface)

		if e.cursorY-row.Height < e.cfg.MarginBottom && !e.pageIsEmpty() {
			e.drawMeta()
			e.newPage()
		}
		if e.options.Debug {
			e.options.Logger.Debugf("page %d: row of %d cards at y=%.2f height=%.2f",
				e.currentPage().Number, len(row.Cards), e.cursorY, row.Height)
		}

		for i, card := range row.Cards {
			if card.TableErr != nil {
				e.options.Logger.Warnf("participant %d (%s): table omitted: %v",
					index+1, card.Participant.Label(), card.TableErr)
			}
			e.surface.DrawCard(e.cfg.ColumnX(i), e.cursorY, card)
			index++
		}

		page := e.currentPage()
		page.Rows = append(page.Rows, PlacedRow{Row: row, Y: e.cursorY})
		e.cursorY -= row.Height + e.cfg.GridGapY
	}

	e.drawMeta()
	return e.pages
}

func (e *Engine) newPage() {
	e.surface.AddPage()
	e.pages = append(e.pages, &Page{Number: len(e.pages) + 1})
	e.cursorY = e.cfg.ContentTop()
	e.headerDrawn = false
}

func (e *Engine) currentPage() *Page {
	return e.pages[len(e.pages)-1]
}

// pageIsEmpty reports whether nothing has been drawn on the current page
// yet. A row that does not fit on an empty page is drawn anyway and
// overflows.
func (e *Engine) pageIsEmpty() bool {
	return len(e.currentPage().Rows) == 0 && !e.headerDrawn
}

// drawHeader draws the header items downwards from the top margin
func (e *Engine) drawHeader() {
	for _, item := range e.options.Header {
		line := e.cfg.Header.Apply(item)
		e.surface.DrawText(Text{
			X:       headerX(line.Align, e.cfg),
			Y:       e.cursorY,
			Content: line.Text,
			Font:    line.Font,
			Size:    line.Size,
			Color:   line.Color,
			Align:   line.Align,
		})
		e.cursorY -= line.Size + line.BottomPadding
		e.headerDrawn = true
	}
	e.cursorY -= headerGap
}

// drawMeta draws the meta items of the current page
func (e *Engine) drawMeta() {
	if len(e.options.Meta) == 0 {
		return
	}
	now := e.options.Now()
	page := e.currentPage().Number
	for _, item := range e.options.Meta {
		line := e.cfg.Meta.Apply(item)
		x, y, align := KeypadAnchor(line.Position, line.Padding, line.Size, e.cfg.PageWidth, e.cfg.PageHeight)
		e.surface.DrawText(Text{
			X:       x,
			Y:       y,
			Content: style.ExpandTemplate(line.Text, now, page),
			Font:    line.Font,
			Size:    line.Size,
			Color:   line.Color,
			Align:   align,
		})
	}
}
