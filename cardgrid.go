// Package cardgrid renders participant cards (portrait, text fields and a
// key/value table) into a paginated PDF grid.
package cardgrid

import (
	"github.com/gompdf/cardgrid/pkg/api"
)

type Generator = api.Generator
type Options = api.Options
type Option = api.Option
type Overrides = api.Overrides
type HeaderStyleOverride = api.HeaderStyleOverride
type TableStyleOverride = api.TableStyleOverride
type Job = api.Job
type PageOrientation = api.PageOrientation

type Participant = api.Participant
type HeaderItem = api.HeaderItem
type MetaItem = api.MetaItem
type FieldStyle = api.FieldStyle
type TableStyle = api.TableStyle
type FontSpec = api.FontSpec

var ErrUnknownOverride = api.ErrUnknownOverride

func New() *Generator                           { return api.New() }
func NewWithOptions(options Options) *Generator { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithPageSize         = api.WithPageSize
	WithMargins          = api.WithMargins
	WithColumns          = api.WithColumns
	WithGridGap          = api.WithGridGap
	WithImageAspectRatio = api.WithImageAspectRatio
	WithResampling       = api.WithResampling
	WithImageDir         = api.WithImageDir
	WithResourcePath     = api.WithResourcePath
	WithFonts            = api.WithFonts
	WithParticipantStyle = api.WithParticipantStyle
	WithTableOptions     = api.WithTableOptions
	WithAlignTableRows   = api.WithAlignTableRows
	WithOverrides        = api.WithOverrides
	WithDebug            = api.WithDebug
	WithLogger           = api.WithLogger
	WithTitle            = api.WithTitle
	WithAuthor           = api.WithAuthor
	WithSubject          = api.WithSubject
	WithKeywords         = api.WithKeywords
	WithPageSizeA4       = api.WithPageSizeA4
	WithPageSizeLetter   = api.WithPageSizeLetter
	WithPageSizeLegal    = api.WithPageSizeLegal
	WithPageOrientation  = api.WithPageOrientation
	ParseOverrides       = api.ParseOverrides
	OverridesFromMap     = api.OverridesFromMap
	LoadJob              = api.LoadJob
	RunJob               = api.RunJob
	LoadParticipants     = api.LoadParticipants
)

const (
	PageSizeA0Width  = api.PageSizeA0Width
	PageSizeA0Height = api.PageSizeA0Height
	PageSizeA1Width  = api.PageSizeA1Width
	PageSizeA1Height = api.PageSizeA1Height
	PageSizeA2Width  = api.PageSizeA2Width
	PageSizeA2Height = api.PageSizeA2Height
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height
	PageSizeA6Width  = api.PageSizeA6Width
	PageSizeA6Height = api.PageSizeA6Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
