// Package config holds the user-facing options of a label run.
//
// Options are plain values: lengths and colours stay strings ("2mm",
// "d2dede") until [Options.Resolve] converts them into a [label.Config], a
// sheet type and a print offset. Sources are merged explicitly in this order:
//
//  1. [Default]
//  2. a TOML file, see [Load]
//  3. individual overrides, see [Options.Set] (command line flags, query
//     parameters)
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/fonts"
	"github.com/matzehuels/asnlabels/pkg/label"
	"github.com/matzehuels/asnlabels/pkg/sheet"
	"github.com/matzehuels/asnlabels/pkg/units"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultLabelType         = 4731
	DefaultNumber            = 189
	DefaultNumDigits         = 6
	DefaultFirstASN          = 1
	DefaultFontSize          = "2mm"
	DefaultQRSize            = 0.9
	DefaultQRMargin          = "1mm"
	DefaultBarColor          = "d2dede"
	DefaultHighlightBarColor = "d9a4a6"
	DefaultPrefix            = "ASN"
)

// Output formats.
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Upper bounds of a single run. They keep [Options.Labels] well inside int.
const (
	MaxNumber    = 1_000_000 // Physical labels
	MaxSubLabels = 100       // Per axis of one physical label
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF: true,
	FormatPNG: true,
}

// =============================================================================
// Options
// =============================================================================

// Options is the complete configuration of one run. Field tags name the keys
// used in TOML files and in preview server query strings.
type Options struct {
	Output    string `toml:"output" json:"output,omitempty"`
	Format    string `toml:"format" json:"format"`
	LabelType int    `toml:"label_type" json:"label_type"`
	Number    int    `toml:"number" json:"number"` // Physical labels
	Offset    int    `toml:"offset" json:"offset"` // Slots to skip on the first page

	NumDigits int    `toml:"num_digits" json:"num_digits"`
	FirstASN  int    `toml:"first_asn" json:"first_asn"`
	Prefix    string `toml:"prefix" json:"prefix"`

	FontSize string  `toml:"font_size" json:"font_size"`
	QRSize   float64 `toml:"qr_size" json:"qr_size"`
	QRMargin string  `toml:"qr_margin" json:"qr_margin"`

	SubLabelsX int `toml:"sub_labels_x" json:"sub_labels_x"`
	SubLabelsY int `toml:"sub_labels_y" json:"sub_labels_y"`

	BarWidth          string `toml:"bar_width" json:"bar_width"`
	BarColor          string `toml:"bar_color" json:"bar_color"`
	HighlightBarWidth string `toml:"highlight_bar_width" json:"highlight_bar_width"`
	HighlightBarColor string `toml:"highlight_bar_color" json:"highlight_bar_color"`

	Debug          bool `toml:"debug" json:"debug"`
	PositionHelper bool `toml:"position_helper" json:"position_helper"`

	PageOffsetX string `toml:"page_offset_x" json:"page_offset_x"`
	PageOffsetY string `toml:"page_offset_y" json:"page_offset_y"`
}

// Default returns the options of a run without any user input: one full
// sheet of Avery L4731 starting at ASN000001.
func Default() Options {
	return Options{
		Format:            FormatPDF,
		LabelType:         DefaultLabelType,
		Number:            DefaultNumber,
		NumDigits:         DefaultNumDigits,
		FirstASN:          DefaultFirstASN,
		Prefix:            DefaultPrefix,
		FontSize:          DefaultFontSize,
		QRSize:            DefaultQRSize,
		QRMargin:          DefaultQRMargin,
		SubLabelsX:        1,
		SubLabelsY:        1,
		BarWidth:          "0",
		BarColor:          DefaultBarColor,
		HighlightBarWidth: "0",
		HighlightBarColor: DefaultHighlightBarColor,
		PageOffsetX:       "0mm",
		PageOffsetY:       "0mm",
	}
}

// Load decodes the TOML file at path on top of base. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Load(path string, base Options) (Options, error) {
	opts := base
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return base, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// Keys lists the option keys accepted by Set, in TOML file order.
var Keys = []string{
	"output", "format", "label_type", "number", "offset",
	"num_digits", "first_asn", "prefix",
	"font_size", "qr_size", "qr_margin",
	"sub_labels_x", "sub_labels_y",
	"bar_width", "bar_color", "highlight_bar_width", "highlight_bar_color",
	"debug", "position_helper",
	"page_offset_x", "page_offset_y",
}

// Set assigns a single option from its string form. Values are only checked
// for their basic type here; Validate checks ranges.
func (o *Options) Set(key, value string) error {
	intField := func(dst *int) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.Field(key, value, "not an integer")
		}
		*dst = n
		return nil
	}
	boolField := func(dst *bool) error {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return errors.Field(key, value, "not a boolean")
		}
		*dst = b
		return nil
	}

	switch key {
	case "output":
		o.Output = value
	case "format":
		o.Format = strings.ToLower(value)
	case "label_type":
		return intField(&o.LabelType)
	case "number":
		return intField(&o.Number)
	case "offset":
		return intField(&o.Offset)
	case "num_digits":
		return intField(&o.NumDigits)
	case "first_asn":
		return intField(&o.FirstASN)
	case "prefix":
		o.Prefix = value
	case "font_size":
		o.FontSize = value
	case "qr_size":
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return errors.Field(key, value, "not a number")
		}
		o.QRSize = f
	case "qr_margin":
		o.QRMargin = value
	case "sub_labels_x":
		return intField(&o.SubLabelsX)
	case "sub_labels_y":
		return intField(&o.SubLabelsY)
	case "bar_width":
		o.BarWidth = value
	case "bar_color":
		o.BarColor = value
	case "highlight_bar_width":
		o.HighlightBarWidth = value
	case "highlight_bar_color":
		o.HighlightBarColor = value
	case "debug":
		return boolField(&o.Debug)
	case "position_helper":
		return boolField(&o.PositionHelper)
	case "page_offset_x":
		o.PageOffsetX = value
	case "page_offset_y":
		o.PageOffsetY = value
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown option %q", key)
	}
	return nil
}

// =============================================================================
// Validation and resolution
// =============================================================================

// Resolved is the validated, unit-converted form of Options.
type Resolved struct {
	Label   label.Config
	Sheet   sheet.Type
	OffsetX float64 // Print offset in points
	OffsetY float64
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	_, err := o.Resolve()
	return err
}

// Resolve validates the options and converts them for the renderers.
func (o Options) Resolve() (Resolved, error) {
	var r Resolved

	if !ValidFormats[o.Format] {
		return r, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: pdf, png)", o.Format)
	}
	t, err := sheet.Lookup(o.LabelType)
	if err != nil {
		return r, err
	}
	switch {
	case o.Number < 1:
		return r, errors.Field("number", o.Number, "must be at least 1")
	case o.Number > MaxNumber:
		return r, errors.Field("number", o.Number, fmt.Sprintf("must not exceed %d", MaxNumber))
	case o.Offset < 0:
		return r, errors.Field("offset", o.Offset, "must not be negative")
	case o.NumDigits < 0:
		return r, errors.Field("num_digits", o.NumDigits, "must not be negative")
	case o.FirstASN < 0:
		return r, errors.Field("first_asn", o.FirstASN, "must not be negative")
	case o.SubLabelsX < 1 || o.SubLabelsX > MaxSubLabels:
		return r, errors.Field("sub_labels_x", o.SubLabelsX, fmt.Sprintf("must be between 1 and %d", MaxSubLabels))
	case o.SubLabelsY < 1 || o.SubLabelsY > MaxSubLabels:
		return r, errors.Field("sub_labels_y", o.SubLabelsY, fmt.Sprintf("must be between 1 and %d", MaxSubLabels))
	case o.QRSize < 0 || o.QRSize > 1:
		return r, errors.Field("qr_size", o.QRSize, "must be between 0 and 1")
	}

	lengths := []struct {
		key      string
		value    string
		dst      *float64
		negative bool
	}{
		{"font_size", o.FontSize, &r.Label.FontSize, false},
		{"qr_margin", o.QRMargin, &r.Label.QRMargin, false},
		{"bar_width", o.BarWidth, &r.Label.BarWidth, false},
		{"highlight_bar_width", o.HighlightBarWidth, &r.Label.HighlightBarWidth, false},
		{"page_offset_x", o.PageOffsetX, &r.OffsetX, true},
		{"page_offset_y", o.PageOffsetY, &r.OffsetY, true},
	}
	for _, l := range lengths {
		v, err := units.ParseLength(l.value)
		if err != nil {
			return r, fmt.Errorf("%s: %w", l.key, err)
		}
		if v < 0 && !l.negative {
			return r, errors.Field(l.key, l.value, "must not be negative")
		}
		*l.dst = v
	}

	bar, err := units.ParseColor(o.BarColor)
	if err != nil {
		return r, fmt.Errorf("bar_color: %w", err)
	}
	highlight, err := units.ParseColor(o.HighlightBarColor)
	if err != nil {
		return r, fmt.Errorf("highlight_bar_color: %w", err)
	}

	r.Sheet = t
	r.Label.SubLabelsX = o.SubLabelsX
	r.Label.SubLabelsY = o.SubLabelsY
	r.Label.Prefix = o.Prefix
	r.Label.NumDigits = o.NumDigits
	r.Label.FontName = fonts.Family
	r.Label.QRSize = o.QRSize
	r.Label.BarColor = bar
	r.Label.HighlightBarColor = highlight
	r.Label.Debug = o.Debug
	r.Label.PositionHelper = o.PositionHelper

	if err := r.Label.Validate(); err != nil {
		return r, errors.Wrap(errors.ErrCodeInvalidConfig, err, "render config")
	}
	return r, nil
}

// =============================================================================
// Identifier range and output naming
// =============================================================================

// Labels returns the number of identifiers the run consumes.
func (o Options) Labels() int {
	return o.Number * o.SubLabelsX * o.SubLabelsY
}

// LastASN returns the last identifier value the run will print. For a run
// without labels it is FirstASN-1.
func (o Options) LastASN() int {
	return o.FirstASN + o.Labels() - 1
}

// Filename derives the default output name, e.g.
// "label-4731-ASN-000001-000189.pdf".
func (o Options) Filename() string {
	return fmt.Sprintf("label-%d-%s-%s-%s.%s",
		o.LabelType,
		o.Prefix,
		label.FormatID("", o.FirstASN, o.NumDigits),
		label.FormatID("", o.LastASN(), o.NumDigits),
		o.Format)
}

// OutputPath returns where the run writes its output. An empty Output means
// the derived filename in the working directory; an Output without a .pdf or
// .png extension is treated as a directory.
func (o Options) OutputPath() string {
	if o.Output == "" {
		return o.Filename()
	}
	ext := strings.ToLower(filepath.Ext(o.Output))
	if ext == "."+FormatPDF || ext == "."+FormatPNG {
		return o.Output
	}
	return filepath.Join(o.Output, o.Filename())
}
