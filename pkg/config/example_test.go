package config_test

import (
	"fmt"

	"github.com/matzehuels/asnlabels/pkg/config"
)

func ExampleOptions_Filename() {
	opts := config.Default()
	opts.FirstASN = 190
	opts.Number = 21
	opts.SubLabelsX = 2
	fmt.Println(opts.Filename())
	// Output:
	// label-4731-ASN-000190-000231.pdf
}

func ExampleOptions_Set() {
	opts := config.Default()
	if err := opts.Set("label_type", "5160"); err != nil {
		panic(err)
	}
	if err := opts.Set("bar_width", "2mm"); err != nil {
		panic(err)
	}
	fmt.Println(opts.LabelType, opts.BarWidth)

	err := opts.Set("colour", "red")
	fmt.Println(err != nil)
	// Output:
	// 5160 2mm
	// true
}
