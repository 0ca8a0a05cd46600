// Package pkg provides the core libraries for asnlabels, a generator for
// archive serial number (ASN) label sheets.
//
// # Overview
//
// asnlabels prints runs of sequential identifiers such as ASN000001,
// ASN000002, ... onto commercial adhesive label sheets. Every label carries a
// QR code encoding its identifier and the identifier as text, so scanned
// paper documents can be matched to their records. The pkg directory is
// organized into three areas:
//
//  1. Domain logic ([label], [sheet], [units])
//  2. Drawing ([canvas], [canvas/pdf], [canvas/png], [qr], [fonts])
//  3. Orchestration ([config], [pipeline], [observability], [errors])
//
// # Architecture
//
// The data flow of a single run:
//
//	TOML file / flags / query parameters
//	         ↓
//	    [config] package (merge, validate, resolve lengths and colors)
//	         ↓
//	    [sheet] package (walk the physical slots of each page)
//	         ↓
//	    [label] package (split each slot into cells, assign identifiers)
//	         ↓
//	    [canvas/pdf] or [canvas/png]
//
// # Quick Start
//
//	opts := config.Default()
//	opts.LabelType = 4731
//	opts.Number = 189
//
//	result, err := pipeline.NewRunner(logger).Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Path) // label-4731-ASN-000001-000189.pdf
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/label/...              # Specific package
//	go test -run Example                 # Examples only
//
// [label]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/label
// [sheet]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/sheet
// [units]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/units
// [canvas]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/canvas
// [canvas/pdf]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/canvas/pdf
// [canvas/png]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/canvas/png
// [qr]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/qr
// [fonts]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/fonts
// [config]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/asnlabels/pkg/errors
package pkg
