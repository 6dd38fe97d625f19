package grid_test

import (
	"fmt"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

func ExampleConfig_Widths() {
	cfg := grid.Default()
	for _, w := range cfg.Widths() {
		fmt.Printf("%.3f\n", w)
	}
	// Output:
	// 0.333
	// 0.500
	// 0.667
	// 1.000
}

func ExampleLayout_Ordered() {
	cfg := grid.Default()
	l := grid.Layout{
		"city":  {ID: "city", Width: 0.5, Position: grid.Position{X: 0.5, Y: cfg.RowY(1)}},
		"name":  {ID: "name", Width: 1, Position: grid.Position{X: 0, Y: 0}},
		"zip":   {ID: "zip", Width: 0.5, Position: grid.Position{X: 0, Y: cfg.RowY(1)}},
		"notes": {ID: "notes", Width: 1, Position: grid.HiddenPosition},
	}
	for _, p := range l.Ordered(cfg) {
		fmt.Println(p.Row(cfg), p.ID)
	}
	// Output:
	// 0 name
	// 1 zip
	// 1 city
}
