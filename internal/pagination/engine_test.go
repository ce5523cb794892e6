package pagination

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"

	"github.com/gompdf/cardgrid/internal/layout"
	"github.com/gompdf/cardgrid/internal/style"
)

type drawnCard struct {
	page int
	x    float64
	top  float64
	card *layout.Card
}

// recorder is a Surface that records what would have been drawn
type recorder struct {
	pages int
	texts map[int][]Text
	cards []drawnCard
}

func newRecorder() *recorder { return &recorder{texts: make(map[int][]Text)} }

func (r *recorder) StringWidth(_ string, size float64, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * size / 2
}

func (r *recorder) AddPage() { r.pages++ }

func (r *recorder) DrawText(t Text) { r.texts[r.pages] = append(r.texts[r.pages], t) }

func (r *recorder) DrawCard(x, top float64, card *layout.Card) {
	r.cards = append(r.cards, drawnCard{page: r.pages, x: x, top: top, card: card})
}

func testConfig() layout.Config {
	return layout.Config{
		PageWidth:        595.2756,
		PageHeight:       841.8898,
		MarginTop:        30,
		MarginRight:      30,
		MarginBottom:     30,
		MarginLeft:       30,
		Columns:          4,
		GridGapX:         15,
		GridGapY:         15,
		ImageAspectRatio: 3.5 / 4.5,
		ImageBorderWidth: 1,
		TextGapBuffer:    4,
		TableTopMargin:   2,
		Table:            style.TableStyle{KeyColRatio: 0.4, Font: "R", Size: 9, BorderWidth: 1, Padding: 2},
		Fields: []style.FieldStyle{
			{Key: "name", Font: "B", Size: 13, Padding: 2},
			{Key: "line1", Font: "R", Size: 11},
		},
		Header: style.HeaderStyle{Font: "B", Size: 12, Align: style.AlignCenter, BottomPadding: 10},
		Meta:   style.MetaStyle{Font: "Helvetica", Size: 10, Position: 1, Padding: 10},
	}
}

func fixedNow() time.Time { return time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC) }

func participants(n int) []layout.Participant {
	ps := make([]layout.Participant, n)
	for i := range ps {
		ps[i] = layout.Participant{"name": "P", "line1": "x"}
	}
	return ps
}

func paginate(t *testing.T, cfg layout.Config, opts Options, ps []layout.Participant) (*recorder, []*Page) {
	t.Helper()
	rec := newRecorder()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	e, err := NewEngine(cfg, rec, opts)
	if err != nil {
		t.Fatal(err)
	}
	return rec, e.Paginate(ps)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Columns = 0
	if _, err := NewEngine(cfg, newRecorder(), Options{}); !errors.Is(err, layout.ErrInvalidConfig) {
		t.Errorf("NewEngine() error = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewEngine(testConfig(), nil, Options{}); err == nil {
		t.Error("NewEngine() accepted a nil surface")
	}
}

func TestEmptyInput(t *testing.T) {
	meta := []style.MetaItem{{Text: "p{{page}}"}}
	rec, pages := paginate(t, testConfig(), Options{Meta: meta}, nil)
	if rec.pages != 1 || len(pages) != 1 || len(rec.cards) != 0 {
		t.Fatalf("pages=%d records=%d cards=%d", rec.pages, len(pages), len(rec.cards))
	}
	if got := rec.texts[1]; len(got) != 1 || got[0].Content != "p1" {
		t.Errorf("meta texts %+v", got)
	}
}

func TestHeaderPositions(t *testing.T) {
	cfg := testConfig()
	header := []style.HeaderItem{
		{Text: "Title", Size: 18},
		{Text: "Left", Align: style.AlignLeft},
		{Text: "Right", Align: style.AlignRight},
	}
	rec, pages := paginate(t, cfg, Options{Header: header}, participants(1))

	top := cfg.PageHeight - cfg.MarginTop
	want := []Text{
		{X: cfg.PageWidth / 2, Y: top, Content: "Title", Font: "B", Size: 18, Align: style.AlignCenter},
		{X: cfg.MarginLeft, Y: top - 28, Content: "Left", Font: "B", Size: 12, Align: style.AlignLeft},
		{X: cfg.PageWidth - cfg.MarginRight, Y: top - 50, Content: "Right", Font: "B", Size: 12, Align: style.AlignRight},
	}
	if diff := cmp.Diff(want, rec.texts[1], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if got, wantY := pages[0].Rows[0].Y, top-72-headerGap; math.Abs(got-wantY) > 1e-9 {
		t.Errorf("first row at %v, want %v", got, wantY)
	}
}

func TestHeaderGapWithoutHeader(t *testing.T) {
	cfg := testConfig()
	_, pages := paginate(t, cfg, Options{}, participants(1))
	if got, want := pages[0].Rows[0].Y, cfg.ContentTop()-headerGap; got != want {
		t.Errorf("first row at %v, want %v", got, want)
	}
}

// rowsPerPage is how many rows of height h fit between top and the bottom
// margin when rows are separated by gap.
func rowsPerPage(top, bottom, h, gap float64) int {
	return int(math.Floor((top-bottom-h)/(h+gap))) + 1
}

func TestPageBreaks(t *testing.T) {
	cfg := testConfig()
	meta := []style.MetaItem{{Text: "Page {{page}}", Position: 3}}
	rec, pages := paginate(t, cfg, Options{Meta: meta}, participants(80))

	// every card has the same height, so each page holds a fixed number of rows
	h := layout.ComputeHeight(participants(1)[0], cfg, newRecorder())
	first := rowsPerPage(cfg.ContentTop()-headerGap, cfg.MarginBottom, h, cfg.GridGapY)
	rest := rowsPerPage(cfg.ContentTop(), cfg.MarginBottom, h, cfg.GridGapY)
	if first != 3 || rest != 3 {
		t.Fatalf("rows per page = %d, %d; want 3, 3 for card height %v", first, rest, h)
	}

	totalRows := 80 / cfg.Columns
	want := []int{first}
	for left := totalRows - first; left > 0; left -= rest {
		want = append(want, min(left, rest))
	}
	if len(want) != 1+int(math.Ceil(float64(totalRows-first)/float64(rest))) || len(want) != 7 {
		t.Fatalf("expected page layout %v", want)
	}

	got := make([]int, 0, len(pages))
	for _, p := range pages {
		got = append(got, len(p.Rows))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows per page mismatch (-want +got):\n%s", diff)
	}
	if rec.pages != len(pages) {
		t.Errorf("surface saw %d pages, engine recorded %d", rec.pages, len(pages))
	}

	drawn := 0
	for _, p := range pages {
		for _, r := range p.Rows {
			drawn += len(r.Cards)
			if math.Abs(r.Height-h) > 1e-9 {
				t.Errorf("page %d: row height %v, want %v", p.Number, r.Height, h)
			}
			if bottom := r.Y - r.Height; bottom < cfg.MarginBottom-1e-9 {
				t.Errorf("page %d: row at %v extends to %v below the margin", p.Number, r.Y, bottom)
			}
		}
		texts := rec.texts[p.Number]
		found := false
		for _, tx := range texts {
			if tx.Content == "Page "+strconv.Itoa(p.Number) {
				found = true
				if tx.Align != style.AlignRight || tx.X != cfg.PageWidth-10 || tx.Y != 10 {
					t.Errorf("meta placed at %+v", tx)
				}
			}
		}
		if !found {
			t.Errorf("page %d has no meta text: %+v", p.Number, texts)
		}
	}
	if drawn != 80 {
		t.Errorf("drew %d cards, want 80", drawn)
	}
}

func TestOversizedRowDoesNotEmitEmptyPage(t *testing.T) {
	cfg := testConfig()
	rows := make(map[string]string)
	for i := 0; i < 120; i++ {
		rows["key"+strconv.Itoa(i)] = "value"
	}
	huge := layout.Participant{"name": "Big", "table_data": rows}
	ps := append([]layout.Participant{}, participants(4)...)
	ps = append(ps, huge)

	rec, pages := paginate(t, cfg, Options{}, ps)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if len(pages[1].Rows) != 1 || pages[1].Rows[0].Y != cfg.ContentTop() {
		t.Errorf("oversized row not at top of second page: %+v", pages[1].Rows)
	}
	if rec.cards[4].page != 2 {
		t.Errorf("oversized card drawn on page %d", rec.cards[4].page)
	}

	// alone on a page without header it is drawn there and overflows
	_, pages = paginate(t, cfg, Options{}, []layout.Participant{huge})
	if len(pages) != 1 || len(pages[0].Rows) != 1 {
		t.Errorf("single oversized row produced %d pages", len(pages))
	}

	// below a header it moves to the next page
	_, pages = paginate(t, cfg, Options{Header: []style.HeaderItem{{Text: "H"}}}, []layout.Participant{huge})
	if len(pages) != 2 || len(pages[0].Rows) != 0 || len(pages[1].Rows) != 1 {
		t.Errorf("oversized row below header: %d pages", len(pages))
	}
}

func TestCardPositions(t *testing.T) {
	cfg := testConfig()
	rec, _ := paginate(t, cfg, Options{}, participants(5))
	for i, dc := range rec.cards {
		col := i % cfg.Columns
		if want := cfg.ColumnX(col); math.Abs(dc.x-want) > 1e-9 {
			t.Errorf("card %d at x=%v, want %v", i, dc.x, want)
		}
	}
	if rec.cards[0].top != rec.cards[3].top || rec.cards[4].top >= rec.cards[0].top {
		t.Error("cards not arranged in rows")
	}
}

func TestMalformedTableLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := ll.New("test").Handler(lh.NewTextHandler(&buf))
	logger.Enable()

	ps := []layout.Participant{{"name": "Broken", "table_data": "{oops"}}
	rec, _ := paginate(t, testConfig(), Options{Logger: logger}, ps)
	if len(rec.cards) != 1 || rec.cards[0].card.Table != nil {
		t.Fatal("broken card should be drawn without table")
	}
	if !strings.Contains(buf.String(), "Broken") {
		t.Errorf("warning does not name the participant: %q", buf.String())
	}
}

func TestNoOverlap(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(7))
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	ps := make([]layout.Participant, 60)
	for i := range ps {
		name := words[rng.Intn(len(words))]
		for j := rng.Intn(8); j > 0; j-- {
			name += " " + words[rng.Intn(len(words))]
		}
		p := layout.Participant{"name": name}
		if rng.Intn(2) == 0 {
			table := map[string]string{}
			for j := rng.Intn(6); j > 0; j-- {
				table[words[rng.Intn(len(words))]] = name
			}
			p["table_data"] = table
		}
		ps[i] = p
	}

	_, pages := paginate(t, cfg, Options{Header: []style.HeaderItem{{Text: "H"}}}, ps)
	for _, page := range pages {
		for i := 1; i < len(page.Rows); i++ {
			prev, cur := page.Rows[i-1], page.Rows[i]
			if cur.Y > prev.Y-prev.Height-cfg.GridGapY+1e-9 {
				t.Errorf("page %d: row %d at %v overlaps previous row ending at %v",
					page.Number, i, cur.Y, prev.Y-prev.Height)
			}
		}
		for _, r := range page.Rows {
			for _, c := range r.Cards {
				if c.Height() > r.Height+1e-9 {
					t.Errorf("card height %v exceeds row height %v", c.Height(), r.Height)
				}
			}
		}
	}
}

func TestKeypadAnchor(t *testing.T) {
	const w, h = 600.0, 800.0
	tests := []struct {
		pos   int
		x, y  float64
		align style.Align
	}{
		{1, 10, 10, style.AlignLeft},
		{2, 300, 10, style.AlignCenter},
		{3, 590, 10, style.AlignRight},
		{5, 300, 400, style.AlignCenter},
		{7, 10, 780, style.AlignLeft},
		{9, 590, 780, style.AlignRight},
		{0, 10, 10, style.AlignLeft},
		{12, 10, 10, style.AlignLeft},
	}
	for _, tt := range tests {
		x, y, align := KeypadAnchor(tt.pos, 10, 10, w, h)
		if x != tt.x || y != tt.y || align != tt.align {
			t.Errorf("KeypadAnchor(%d) = (%v, %v, %s), want (%v, %v, %s)", tt.pos, x, y, align, tt.x, tt.y, tt.align)
		}
	}
}

func TestKeypadTopLeftClearsEdge(t *testing.T) {
	x, y, align := KeypadAnchor(7, 20, 12, 600, 800)
	if x != 20 || y != 768 || align != style.AlignLeft {
		t.Errorf("KeypadAnchor(7) = (%v, %v, %s), want (20, 768, left)", x, y, align)
	}
}
