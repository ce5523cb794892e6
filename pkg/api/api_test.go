package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"

	"github.com/gompdf/cardgrid/internal/layout"
	"github.com/gompdf/cardgrid/internal/style"
)

func quietOptions() Options {
	o := DefaultOptions()
	logger := ll.New("test").Handler(lh.NewTextHandler(io.Discard))
	o.Logger = logger
	return o
}

func TestDefaults(t *testing.T) {
	o := DefaultOptions()
	cfg := o.LayoutConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if want := (PageSizeA4Width - 60 - 45) / 4; math.Abs(cfg.ColWidth()-want) > 1e-9 {
		t.Errorf("ColWidth() = %v, want %v", cfg.ColWidth(), want)
	}
	if cfg.TextGap() != 17 {
		t.Errorf("TextGap() = %v, want 17", cfg.TextGap())
	}
	if o.ImageDir != "img" || !o.EnableImageResampling || o.ResamplingDPI != 200 {
		t.Errorf("image defaults: %q %v %v", o.ImageDir, o.EnableImageResampling, o.ResamplingDPI)
	}
	if o.HeaderStyle.Font != FontNameBold || o.TableOpts.Font != FontNameRegular || !o.FontBold.Bold {
		t.Error("fonts not wired into styles")
	}
}

func TestOrientation(t *testing.T) {
	o := DefaultOptions()
	o.PageOrientation = PageOrientationLandscape
	cfg := o.LayoutConfig()
	if cfg.PageWidth != PageSizeA4Height || cfg.PageHeight != PageSizeA4Width {
		t.Errorf("landscape page %vx%v", cfg.PageWidth, cfg.PageHeight)
	}
	wide := DefaultOptions()
	wide.PageWidth, wide.PageHeight = 800, 600
	wide.PageOrientation = PageOrientationPortrait
	if cfg := wide.LayoutConfig(); cfg.PageWidth != 600 {
		t.Errorf("portrait did not swap: %vx%v", cfg.PageWidth, cfg.PageHeight)
	}
}

func TestPageSizeKeptWithoutOrientation(t *testing.T) {
	tests := []struct {
		name string
		g    *Generator
	}{
		{"option", NewWithOptions(quietOptions()).WithOption(WithPageSize(PageSizeA4Height, PageSizeA4Width))},
		{"setter", NewWithOptions(quietOptions()).SetPageSize(PageSizeA4Height, PageSizeA4Width)},
	}
	for _, tt := range tests {
		cfg := tt.g.Options().LayoutConfig()
		if cfg.PageWidth != PageSizeA4Height || cfg.PageHeight != PageSizeA4Width {
			t.Errorf("%s: requested %vx%v, got %vx%v", tt.name,
				PageSizeA4Height, PageSizeA4Width, cfg.PageWidth, cfg.PageHeight)
		}
	}

	_, pages, err := NewWithOptions(coreFontOptions()).SetPageSize(PageSizeA4Height, PageSizeA4Width).
		Render([]Participant{{"name": "A"}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// top margin and the gap below the (empty) header
	want := PageSizeA4Width - 30 - 20
	if got := pages[0].Rows[0].Y; math.Abs(got-want) > 1e-9 {
		t.Errorf("first row at %v, want %v on a landscape page", got, want)
	}
}

func TestParseOverrides(t *testing.T) {
	src := `
margin_top: 36
columns: 3
grid_gap_x: 22
align_tables_row: true
header_style:
  size: 16
table_opts:
  key_col_ratio: 0.5
  border_color: gray
participant_style:
  - key: name
    font: NotoBold
    size: 14
  - key: line2
    label: "City: "
    font: NotoRegular
    size: 10
    color: red
`
	ov, err := ParseOverrides(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	o := DefaultOptions()
	ov.Apply(&o)

	if o.MarginTop != 36 || o.MarginBottom != 30 || o.Columns != 3 || o.GridGapX != 22 || !o.AlignTableRows {
		t.Errorf("scalars not applied: %+v", o)
	}
	wantHeader := HeaderStyle{Font: FontNameBold, Size: 16, Align: style.AlignCenter, Color: style.Black, BottomPadding: 10}
	if diff := cmp.Diff(wantHeader, o.HeaderStyle); diff != "" {
		t.Errorf("header style (-want +got):\n%s", diff)
	}
	if o.TableOpts.KeyColRatio != 0.5 || o.TableOpts.BorderColor != style.Gray || o.TableOpts.Size != 9 {
		t.Errorf("table opts: %+v", o.TableOpts)
	}
	wantFields := []FieldStyle{
		{Key: "name", Font: "NotoBold", Size: 14},
		{Key: "line2", Label: "City: ", Font: "NotoRegular", Size: 10, Color: style.Color{R: 255}},
	}
	if diff := cmp.Diff(wantFields, o.ParticipantStyle); diff != "" {
		t.Errorf("participant style (-want +got):\n%s", diff)
	}

	// column width follows the applied overrides
	cfg := o.LayoutConfig()
	if want := (PageSizeA4Width - 60 - 2*22) / 3; math.Abs(cfg.ColWidth()-want) > 1e-9 {
		t.Errorf("ColWidth() = %v, want %v", cfg.ColWidth(), want)
	}
}

func TestOverridesKeepExplicitZeros(t *testing.T) {
	src := `
table_opts:
  padding: 0
  border_width: 0
header_style:
  bottom_padding: 0
text_gap_buffer: 0
`
	ov, err := ParseOverrides(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	o := DefaultOptions()
	ov.Apply(&o)

	def := DefaultOptions()
	wantTable := def.TableOpts
	wantTable.Padding, wantTable.BorderWidth = 0, 0
	if diff := cmp.Diff(wantTable, o.TableOpts); diff != "" {
		t.Errorf("table opts (-want +got):\n%s", diff)
	}
	wantHeader := def.HeaderStyle
	wantHeader.BottomPadding = 0
	if diff := cmp.Diff(wantHeader, o.HeaderStyle); diff != "" {
		t.Errorf("header style (-want +got):\n%s", diff)
	}
	if o.TextGapBuffer != 0 {
		t.Errorf("text_gap_buffer = %v, want 0", o.TextGapBuffer)
	}

	// the same values given as a map
	ov, err = OverridesFromMap(map[string]any{
		"table_opts":   map[string]any{"border_width": 0},
		"header_style": map[string]any{"bottom_padding": 0, "align": "left"},
	})
	if err != nil {
		t.Fatal(err)
	}
	o = DefaultOptions()
	ov.Apply(&o)
	if o.TableOpts.BorderWidth != 0 || o.TableOpts.Padding != def.TableOpts.Padding {
		t.Errorf("table opts from map: %+v", o.TableOpts)
	}
	if o.HeaderStyle.BottomPadding != 0 || o.HeaderStyle.Align != style.AlignLeft || o.HeaderStyle.Size != def.HeaderStyle.Size {
		t.Errorf("header style from map: %+v", o.HeaderStyle)
	}
}

func TestUnknownOverrideRejected(t *testing.T) {
	_, err := ParseOverrides(strings.NewReader("margin_top: 10\nCOL_WIDTH: 100\n"))
	if !errors.Is(err, ErrUnknownOverride) {
		t.Errorf("ParseOverrides() error = %v, want ErrUnknownOverride", err)
	}
	_, err = OverridesFromMap(map[string]any{"page_colour": "red"})
	if !errors.Is(err, ErrUnknownOverride) {
		t.Errorf("OverridesFromMap() error = %v, want ErrUnknownOverride", err)
	}
	if _, err := ParseOverrides(strings.NewReader("table_opts:\n  fnot: x\n")); err == nil {
		t.Error("unknown nested key accepted")
	}
}

func TestOverridesFromMap(t *testing.T) {
	ov, err := OverridesFromMap(map[string]any{
		"columns":                 2,
		"img_aspect_ratio":        1.0,
		"enable_image_resampling": false,
		"font_regular":            map[string]any{"name": "Body", "path": "fonts/body.ttf"},
	})
	if err != nil {
		t.Fatal(err)
	}
	o := DefaultOptions()
	ov.Apply(&o)
	if o.Columns != 2 || o.ImageAspectRatio != 1 || o.EnableImageResampling {
		t.Errorf("not applied: %+v", o)
	}
	if o.FontRegular != (FontSpec{Name: "Body", Path: "fonts/body.ttf"}) {
		t.Errorf("font_regular = %+v", o.FontRegular)
	}
}

func TestOverrideKeys(t *testing.T) {
	keys := OverrideKeys()
	for _, want := range []string{"margin_top", "columns", "participant_style", "align_tables_row", "image_dir"} {
		found := false
		for _, k := range keys {
			found = found || k == want
		}
		if !found {
			t.Errorf("missing key %q in %v", want, keys)
		}
	}
}

func TestParseJob(t *testing.T) {
	src := `
data: data/participants.json
output: out.pdf
page_size: letter
landscape: true
header:
  - text: Title
    size: 18
meta:
  - text: "Page {{page}}"
    position: 3
overrides:
  columns: 5
`
	job, err := ParseJob(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if job.Data != "data/participants.json" || len(job.Header) != 1 || job.Meta[0].Position != 3 {
		t.Errorf("job: %+v", job)
	}
	o, err := job.Options()
	if err != nil {
		t.Fatal(err)
	}
	cfg := o.LayoutConfig()
	if cfg.PageWidth != PageSizeLetterHeight || cfg.Columns != 5 {
		t.Errorf("job options: %vx%v cols=%d", cfg.PageWidth, cfg.PageHeight, cfg.Columns)
	}

	if _, err := ParseJob(strings.NewReader("overrides:\n  bogus: 1\n")); !errors.Is(err, ErrUnknownOverride) {
		t.Errorf("unknown override in job: %v", err)
	}
	if _, err := ParseJob(strings.NewReader("outptu: x\n")); err == nil {
		t.Error("unknown job key accepted")
	}
	bad := &Job{PageSize: "b5"}
	if _, err := bad.Options(); err == nil {
		t.Error("unknown page size accepted")
	}
}

func TestLoadJob(t *testing.T) {
	src := "data: people.json\npage_size: a5\noverrides:\n  columns: 2\n"
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := LoadJob(path)
	if err != nil {
		t.Fatal(err)
	}
	fromURL, err := LoadJob("data:text/yaml;base64," + base64.StdEncoding.EncodeToString([]byte(src)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromFile, fromURL); diff != "" {
		t.Errorf("job from data URL differs (-file +url):\n%s", diff)
	}
	if fromFile.Data != "people.json" || *fromFile.Overrides.Columns != 2 {
		t.Errorf("job: %+v", fromFile)
	}
	if _, err := LoadJob(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing job file accepted")
	}
}

func coreFontOptions() Options {
	o := quietOptions()
	o.FontRegular = FontSpec{Name: "Helvetica"}
	o.FontBold = FontSpec{Name: "Helvetica-Bold", Bold: true}
	o.HeaderStyle.Font = "Helvetica-Bold"
	o.TableOpts.Font = "Helvetica"
	o.ParticipantStyle = []FieldStyle{
		{Key: "name", Font: "Helvetica-Bold", Size: 13, Padding: 2},
		{Key: "line1", Font: "Helvetica", Size: 11},
	}
	return o
}

func TestGenerateTo(t *testing.T) {
	ps := []Participant{
		{"name": "Ann", "line1": "Oslo", "potrait": "missing.jpg"},
		{"name": "Bob", "table_data": `{"Room":"4"}`},
	}
	g := NewWithOptions(coreFontOptions()).WithOption(WithImageDir(t.TempDir()))
	var buf bytes.Buffer
	err := g.GenerateTo(ps, []HeaderItem{{Text: "List"}}, []MetaItem{{Text: "{{page}}"}}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateWithMissingFonts(t *testing.T) {
	o := quietOptions()
	dir := t.TempDir()
	o.FontRegular.Path = filepath.Join(dir, "missing.ttf")
	o.FontBold.Path = filepath.Join(dir, "missing-bold.ttf")
	out := filepath.Join(dir, "out", "cards.pdf")
	if err := NewWithOptions(o).Generate([]Participant{{"name": "Ann"}}, nil, nil, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("no output: %v", err)
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	g := NewWithOptions(coreFontOptions()).SetColumns(0)
	var buf bytes.Buffer
	err := g.GenerateTo([]Participant{{"name": "A"}}, nil, nil, &buf)
	if !errors.Is(err, layout.ErrInvalidConfig) {
		t.Errorf("GenerateTo() error = %v, want ErrInvalidConfig", err)
	}
	if buf.Len() != 0 {
		t.Error("output written for an invalid configuration")
	}
}

func TestRender(t *testing.T) {
	ps := make([]Participant, 30)
	for i := range ps {
		ps[i] = Participant{"name": "P"}
	}
	_, pages, err := NewWithOptions(coreFontOptions()).Render(ps, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, p := range pages {
		for _, r := range p.Rows {
			total += len(r.Cards)
		}
	}
	if total != 30 || len(pages) < 2 {
		t.Errorf("%d cards on %d pages", total, len(pages))
	}
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "participants.json")
	if err := os.WriteFile(data, []byte(`[{"name":"Ann","line1":"Oslo"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "cards.pdf")
	if err := NewWithOptions(coreFontOptions()).GenerateFile(data, "", nil, nil, out); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadParticipants(filepath.Join(dir, "nope.json"), ""); err == nil {
		t.Error("missing data file accepted")
	}
}

func TestGeneratorImmutable(t *testing.T) {
	g := New()
	g2 := g.SetColumns(2).SetMargins(1, 2, 3, 4).AddResourcePath("x")
	if g.Options().Columns != 4 || len(g.Options().ResourcePaths) != 0 {
		t.Error("setter modified the original generator")
	}
	if o := g2.Options(); o.Columns != 2 || o.MarginLeft != 4 || len(o.ResourcePaths) != 1 {
		t.Errorf("derived options: %+v", o)
	}
}
