package label_test

import (
	"fmt"

	"github.com/matzehuels/asnlabels/pkg/label"
)

func ExampleFormatID() {
	fmt.Println(label.FormatID("ASN", 42, 6))
	fmt.Println(label.FormatID("ASN", 1234567, 6))
	// Output:
	// ASN000042
	// ASN1234567
}

func ExampleCounter() {
	c := label.NewCounter(190)
	c.Next()
	c.Next()
	fmt.Println("next:", c.Current())
	fmt.Println("rendered:", c.Rendered())
	// Output:
	// next: 192
	// rendered: 2
}

func ExampleCells() {
	// A 2x2 split fills the left column top to bottom, then the right one.
	for _, cell := range label.Cells(2, 2, 100, 40) {
		fmt.Printf("col=%d row=%d at (%g, %g)\n", cell.Column, cell.Row, cell.X, cell.Y)
	}
	// Output:
	// col=0 row=1 at (0, 20)
	// col=0 row=0 at (0, 0)
	// col=1 row=1 at (50, 20)
	// col=1 row=0 at (50, 0)
}

func ExampleQRSide() {
	// The margin caps the side once the fraction would leave too little room.
	fmt.Println(label.QRSide(40, 0.5, 2))
	fmt.Println(label.QRSide(40, 1, 2))
	// Output:
	// 20
	// 36
}
