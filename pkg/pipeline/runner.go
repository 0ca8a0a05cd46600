package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asnlabels/pkg/canvas/pdf"
	"github.com/matzehuels/asnlabels/pkg/canvas/png"
	"github.com/matzehuels/asnlabels/pkg/config"
	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/label"
	"github.com/matzehuels/asnlabels/pkg/observability"
	"github.com/matzehuels/asnlabels/pkg/qr"
	"github.com/matzehuels/asnlabels/pkg/sheet"
)

// Runner executes label runs.
//
// The Runner keeps no state between runs: every run gets a fresh counter,
// QR renderer and document. It is not meant for concurrent runs; callers
// that share a Runner serialise access themselves.
type Runner struct {
	Logger *log.Logger
	DPI    float64 // Raster resolution for PNG output, 0 for png.DefaultDPI
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute validates opts, renders all labels and writes them to
// opts.OutputPath(). PDF output is written to a temporary file next to the
// target and renamed into place once complete.
func (r *Runner) Execute(ctx context.Context, opts config.Options) (*Result, error) {
	start := time.Now()
	res, err := opts.Resolve()
	if err != nil {
		return nil, err
	}

	path := opts.OutputPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", dir)
		}
	}

	result := &Result{Path: path, Format: opts.Format}
	hooks := observability.Render()
	hooks.OnRunStart(ctx, opts.LabelType, opts.Labels())

	switch opts.Format {
	case config.FormatPNG:
		err = r.executePNG(ctx, opts, res, result)
	default:
		err = r.executePDF(ctx, opts, res, result)
	}
	result.Duration = time.Since(start)
	hooks.OnRunComplete(ctx, result.Labels, result.Pages, result.Duration, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("wrote labels",
		"path", path,
		"first", result.FirstASN,
		"last", result.LastASN,
		"pages", result.Pages,
		"duration", result.Duration)
	return result, nil
}

// Render renders a run straight to w. PDF output contains every page; PNG
// output contains the first page only.
func (r *Runner) Render(ctx context.Context, opts config.Options, w io.Writer) (*Result, error) {
	start := time.Now()
	res, err := opts.Resolve()
	if err != nil {
		return nil, err
	}

	result := &Result{Format: opts.Format}
	hooks := observability.Render()
	hooks.OnRunStart(ctx, opts.LabelType, opts.Labels())

	switch opts.Format {
	case config.FormatPNG:
		doc := png.New(res.Sheet.Page.Width, res.Sheet.Page.Height, r.DPI)
		defer doc.Close()
		if err = r.draw(ctx, opts, res, doc, result); err == nil {
			err = doc.EncodePage(0, w)
		}
	default:
		var doc *pdf.Document
		if doc, err = pdf.New(res.Sheet.Page.Width, res.Sheet.Page.Height); err == nil {
			if err = r.draw(ctx, opts, res, doc, result); err == nil {
				_, err = doc.WriteTo(w)
			}
		}
	}
	result.Duration = time.Since(start)
	hooks.OnRunComplete(ctx, result.Labels, result.Pages, result.Duration, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) executePDF(ctx context.Context, opts config.Options, res config.Resolved, result *Result) error {
	doc, err := pdf.New(res.Sheet.Page.Width, res.Sheet.Page.Height)
	if err != nil {
		return err
	}
	if err := r.draw(ctx, opts, res, doc, result); err != nil {
		return err
	}
	if err := writeAtomic(result.Path, doc); err != nil {
		return err
	}
	result.Files = []string{result.Path}
	return nil
}

func (r *Runner) executePNG(ctx context.Context, opts config.Options, res config.Resolved, result *Result) error {
	doc := png.New(res.Sheet.Page.Width, res.Sheet.Page.Height, r.DPI)
	defer doc.Close()
	if err := r.draw(ctx, opts, res, doc, result); err != nil {
		return err
	}
	base := strings.TrimSuffix(result.Path, filepath.Ext(result.Path))
	files, err := doc.WritePages(base)
	result.Files = files
	return err
}

// draw renders every physical label of the run onto doc.
func (r *Runner) draw(ctx context.Context, opts config.Options, res config.Resolved, doc sheet.Document, result *Result) error {
	engine := label.NewEngine(res.Label, label.NewCounter(opts.FirstASN), qr.NewRenderer(), r.Logger)

	driver := sheet.NewDriver(res.Sheet, r.Logger)
	driver.OffsetX = res.OffsetX
	driver.OffsetY = res.OffsetY
	driver.Debug = opts.Debug

	r.Logger.Debug("rendering labels",
		"type", res.Sheet.ID,
		"number", opts.Number,
		"offset", opts.Offset,
		"sub_labels", engine.Config().PerLabel(),
		"pages", driver.Pages(opts.Number, opts.Offset))

	pages, err := driver.Render(ctx, doc, engine.RenderPhysicalLabelContext, opts.Number, opts.Offset)
	result.Pages = pages
	result.Labels = engine.Counter().Rendered()
	result.FirstASN = opts.FirstASN
	result.LastASN = engine.Counter().Current() - 1
	return err
}

// writeAtomic writes doc to a temporary file in the target directory and
// renames it to path.
func writeAtomic(path string, doc io.WriterTo) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".asnlabels-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := doc.WriteTo(tmp); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	// CreateTemp uses 0600; the finished file gets the usual output mode.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename to %s", path)
	}
	return nil
}

func formatID(opts config.Options, value int) string {
	return label.FormatID(opts.Prefix, value, opts.NumDigits)
}
