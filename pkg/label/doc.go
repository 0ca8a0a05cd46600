// Package label implements the layout and sequencing engine for ASN labels.
//
// A physical label slot on a sheet is partitioned into a grid of sub-labels
// (cells). Each cell receives the next identifier from a [Counter], a QR code
// encoding that identifier, the identifier as text and optional accent bars
// and alignment guides.
//
// # Cell Order
//
// Cells are visited column by column, X ascending, and within a column Y
// descending:
//
//	for x := 0; x < SubLabelsX; x++ {
//	    for y := SubLabelsY - 1; y >= 0; y-- { ... }
//	}
//
// The canvas places Y=0 at the bottom of the label, so descending Y hands the
// first identifier of each column to the visually top row. This order decides
// which identifier lands on which cell and must not change, even though the
// inverted loop looks odd at first sight.
//
// # Coordinates
//
// All drawing happens relative to the current cell origin, with the origin at
// the bottom-left corner and lengths in points. Each cell is drawn between a
// SaveState/RestoreState pair so a failing primitive never leaves the
// translation of one cell applied to the next.
//
// # Usage
//
//	counter := label.NewCounter(1)
//	engine := label.NewEngine(cfg, counter, qr.NewRenderer(), logger)
//	err := engine.RenderPhysicalLabel(canvas, width, height)
package label
