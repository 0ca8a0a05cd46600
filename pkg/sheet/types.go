package sheet

import (
	"slices"

	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/units"
)

// PageSize is a page size in points.
type PageSize struct {
	Width  float64
	Height float64
}

// Standard page sizes in points.
var (
	A4     = PageSize{210 * units.Mm, 297 * units.Mm}
	Letter = PageSize{8.5 * units.Inch, 11 * units.Inch}
)

// Type describes the geometry of one label sheet. All lengths are in points.
type Type struct {
	ID          int
	Name        string
	Columns     int
	Rows        int
	LabelWidth  float64
	LabelHeight float64
	GapX        float64 // Horizontal gap between labels
	GapY        float64 // Vertical gap between labels
	MarginX     float64 // Left page margin
	MarginY     float64 // Top page margin
	Page        PageSize
}

// PerPage returns the number of physical labels on one sheet.
func (t Type) PerPage() int {
	return t.Columns * t.Rows
}

func mm(v float64) float64 { return v * units.Mm }

// types holds the built-in sheet database keyed by product number.
var types = map[int]Type{
	// Avery Zweckform L4731REV-25: 189 labels 25.4 x 10 mm
	4731: {4731, "Avery L4731 25.4x10mm", 7, 27, mm(25.4), mm(10), mm(2.5), 0, mm(9), mm(13.5), A4},
	// Avery Zweckform 3657: 40 labels 48.5 x 25.4 mm
	3657: {3657, "Avery 3657 48.5x25.4mm", 4, 10, mm(48.5), mm(25.4), 0, 0, mm(8), mm(21.5), A4},
	// Avery Zweckform L4778: 48 labels 45.7 x 21.2 mm
	4778: {4778, "Avery L4778 45.7x21.2mm", 4, 12, mm(45.7), mm(21.2), mm(2.5), 0, mm(9.85), mm(21.3), A4},
	// Avery Zweckform L7651: 65 labels 38.1 x 21.2 mm
	7651: {7651, "Avery L7651 38.1x21.2mm", 5, 13, mm(38.1), mm(21.2), mm(2.5), 0, mm(4.75), mm(10.7), A4},
	// Avery 5160: 30 address labels 2.625 x 1 in
	5160: {5160, "Avery 5160 2.625x1in", 3, 10, 189, 72, 9, 0, 13.5, 36, Letter},
	// Avery 5161: 20 address labels 4 x 1 in
	5161: {5161, "Avery 5161 4x1in", 2, 10, 288, 72, 13.5, 0, 11.25, 36, Letter},
	// Avery 5163: 10 shipping labels 4 x 2 in
	5163: {5163, "Avery 5163 4x2in", 2, 5, 288, 144, 13.5, 0, 11.25, 36, Letter},
	// Avery 5167: 80 return address labels 1.75 x 0.5 in
	5167: {5167, "Avery 5167 1.75x0.5in", 4, 20, 126, 36, 21.6, 0, 21.6, 36, Letter},
	// Avery 5371: 10 business cards 3.5 x 2 in
	5371: {5371, "Avery 5371 3.5x2in", 2, 5, 252, 144, 0, 0, 54, 36, Letter},
}

// Lookup returns the sheet type with the given product number.
func Lookup(id int) (Type, error) {
	t, ok := types[id]
	if !ok {
		return Type{}, errors.New(errors.ErrCodeUnknownLabelType, "unsupported label type %d (see 'asnlabels labels')", id)
	}
	return t, nil
}

// IDs returns the product numbers of all supported sheet types, sorted.
func IDs() []int {
	ids := make([]int, 0, len(types))
	for id := range types {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// All returns all supported sheet types ordered by product number.
func All() []Type {
	ids := IDs()
	out := make([]Type, len(ids))
	for i, id := range ids {
		out[i] = types[id]
	}
	return out
}
