// Package pipeline runs a complete label job for asnlabels.
//
// A run validates [config.Options], builds the layout engine, the sheet
// driver and the QR renderer, draws every physical label onto a canvas
// backend and writes the result. Both the CLI and the preview server use the
// same [Runner] so a sheet looks identical no matter where it was produced.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := config.Default()
//	opts.FirstASN = 190
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path, result.FirstASN, result.LastASN)
//
// Render to a writer instead of a file:
//
//	result, err := runner.Render(ctx, opts, w)
package pipeline

import (
	"time"

	"github.com/matzehuels/asnlabels/pkg/config"
)

// Result describes a finished run.
type Result struct {
	// Path is the requested output path. For PNG output it is the base the
	// page files are derived from.
	Path string

	// Files lists every file written, in page order.
	Files []string

	// FirstASN and LastASN are the first and last identifier values printed.
	FirstASN int
	LastASN  int

	// Labels is the number of logical labels (identifiers) printed.
	Labels int

	// Pages is the number of sheets used.
	Pages int

	// Format is the output format, pdf or png.
	Format string

	// Duration is the wall time of the run, including writing.
	Duration time.Duration
}

// Range formats the identifier range of the run, e.g. "ASN000001..ASN000189".
func (r *Result) Range(opts config.Options) string {
	return formatID(opts, r.FirstASN) + ".." + formatID(opts, r.LastASN)
}
