package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/asnlabels/pkg/config"
	"github.com/matzehuels/asnlabels/pkg/observability"
	"github.com/matzehuels/asnlabels/pkg/units"
)

// flagAliases maps the short multi-letter spellings to the canonical flag
// names. pflag shorthands are single letters only, so these are resolved by
// the flag set's normalize func.
var flagAliases = map[string]string{
	"lx": "sub-labels-x",
	"ly": "sub-labels-y",
	"bw": "bar-width",
	"bc": "bar-color",
	"hw": "highlight-bar-width",
	"hc": "highlight-bar-color",
	"dx": "page-offset-x",
	"dy": "page-offset-y",
}

func normalizeAlias(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// flagName returns the command line flag for a config key.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		configPath string
		noProgress bool
	)
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "generate [output]",
		Short: "Generate a sheet of ASN labels",
		Long: `Generate renders a run of labels with consecutive archive serial numbers.

The output defaults to a name derived from the options, for example
label-4731-ASN-000001-000189.pdf. If output does not end in .pdf or .png it
is used as a directory.

Options are merged in this order: built-in defaults, the --config TOML file,
flags given on the command line.`,
		Example: `  asnlabels generate
  asnlabels generate -s 190 -n 21 -o 168 out/
  asnlabels generate --lx 2 --ly 2 --bw 2mm --hw 1mm labels.pdf
  asnlabels generate --config labels.toml --format png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := mergeOptions(cmd.Flags(), configPath, args)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, !noProgress)
		},
	}

	f := cmd.Flags()
	f.SetNormalizeFunc(normalizeAlias)
	f.StringVar(&configPath, "config", "", "TOML file with options (keys as in the flag names, with underscores)")
	f.BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	f.IntP("label-type", "l", def.LabelType, "type of label sheet, see 'asnlabels labels'")
	f.IntP("number", "n", def.Number, "number of physical labels to generate")
	f.IntP("offset", "o", def.Offset, "number of labels to skip on the first sheet (e.g. already used)")
	f.IntP("num-digits", "d", def.NumDigits, "number of digits of the ASN, e.g. 000001")
	f.IntP("first-asn", "s", def.FirstASN, "first ASN to use, e.g. 100001")
	f.StringP("prefix", "p", def.Prefix, "prefix to the actual ASN number")
	f.String("format", def.Format, "output format: pdf or png")

	f.VarP(newLengthValue(def.FontSize), "font-size", "f", "font size with a unit, e.g. 2mm, 0.4cm")
	f.Float64P("qr-size", "q", def.QRSize, "size of the QR code as fraction of the label height")
	f.VarP(newLengthValue(def.QRMargin), "qr-margin", "m", "margin around the QR code with a unit, e.g. 1mm")

	f.Int("sub-labels-x", def.SubLabelsX, "labels per physical label horizontally (alias --lx)")
	f.Int("sub-labels-y", def.SubLabelsY, "labels per physical label vertically (alias --ly)")

	f.Var(newLengthValue(def.BarWidth), "bar-width", "width of a coloured bar on the right of the label, 0 for none (alias --bw)")
	f.Var(newColorValue(def.BarColor), "bar-color", "colour of the bar, hex notation (alias --bc)")
	f.Var(newLengthValue(def.HighlightBarWidth), "highlight-bar-width", "width of a highlight bar left of the bar, 0 for none (alias --hw)")
	f.Var(newColorValue(def.HighlightBarColor), "highlight-bar-color", "colour of the highlight bar, hex notation (alias --hc)")

	f.Bool("debug", def.Debug, "outline label slots and enlarge position helpers")
	f.Bool("position-helper", def.PositionHelper, "draw corner guides on every label, e.g. for cutting sub labels")

	f.Var(newLengthValue(def.PageOffsetX), "page-offset-x", "horizontal print offset with a unit, e.g. -2mm (alias --dx)")
	f.Var(newLengthValue(def.PageOffsetY), "page-offset-y", "vertical print offset with a unit, e.g. -1.5mm (alias --dy)")

	return cmd
}

// mergeOptions builds the run options from defaults, the optional config file
// and the flags that were set explicitly.
func mergeOptions(flags *pflag.FlagSet, configPath string, args []string) (config.Options, error) {
	opts := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath, opts)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	for _, key := range config.Keys {
		f := flags.Lookup(flagName(key))
		if f == nil || !f.Changed {
			continue
		}
		if err := opts.Set(key, f.Value.String()); err != nil {
			return opts, fmt.Errorf("--%s: %w", f.Name, err)
		}
	}
	if len(args) > 0 {
		opts.Output = args[0]
	}
	return opts, opts.Validate()
}

// runGenerate executes one run and prints a summary.
func (c *CLI) runGenerate(ctx context.Context, opts config.Options, showProgress bool) error {
	logger := loggerFromContext(ctx)
	logger.Debug("generating labels", "options", fmt.Sprintf("%+v", opts))

	if showProgress {
		hooks := newProgressHooks()
		observability.SetRenderHooks(hooks)
		defer observability.Reset()
	}

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}

	printSuccess("Output written to %s", StyleHighlight.Render(result.Path))
	printKeyValue("ASN", result.Range(opts))
	printKeyValue("Labels", fmt.Sprintf("%d on %d page(s)", result.Labels, result.Pages))
	if len(result.Files) > 1 {
		for _, f := range result.Files {
			printFile(f)
		}
	}
	printDetail("took %s", result.Duration.Round(time.Millisecond))
	return nil
}

// =============================================================================
// Flag values
// =============================================================================

// lengthValue is a pflag.Value accepting lengths with a unit.
type lengthValue struct{ s string }

func newLengthValue(def string) *lengthValue { return &lengthValue{s: def} }

func (v *lengthValue) String() string { return v.s }
func (v *lengthValue) Type() string   { return "length" }

func (v *lengthValue) Set(s string) error {
	if _, err := units.ParseLength(s); err != nil {
		return err
	}
	v.s = s
	return nil
}

// colorValue is a pflag.Value accepting hex colours.
type colorValue struct{ s string }

func newColorValue(def string) *colorValue { return &colorValue{s: def} }

func (v *colorValue) String() string { return v.s }
func (v *colorValue) Type() string   { return "hex" }

// Set stores s normalised to six lowercase hex digits.
func (v *colorValue) Set(s string) error {
	c, err := units.ParseColor(s)
	if err != nil {
		return err
	}
	v.s = units.HexColor(c)
	return nil
}

// =============================================================================
// Progress
// =============================================================================

// progressHooks shows a progress bar over physical labels and a spinner while
// the output is written.
type progressHooks struct {
	observability.NoopRenderHooks
	bar     *progressbar.ProgressBar
	spinner *Spinner
}

func newProgressHooks() *progressHooks {
	return &progressHooks{}
}

func (h *progressHooks) OnLabelRendered(ctx context.Context, done, total int) {
	if h.bar == nil {
		h.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Rendering labels"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = h.bar.Set(done)
	if done == total {
		_ = h.bar.Finish()
		h.spinner = newSpinnerWithContext(ctx, "Writing output...")
		h.spinner.Start()
	}
}

func (h *progressHooks) OnRunComplete(context.Context, int, int, time.Duration, error) {
	if h.bar != nil {
		_ = h.bar.Exit()
	}
	if h.spinner != nil {
		h.spinner.Stop()
		h.spinner = nil
	}
}
