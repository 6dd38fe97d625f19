package interact_test

import (
	"fmt"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/interact"
)

func ExampleOrchestrator_DragEnd() {
	cfg := grid.Default()
	layout := grid.Layout{
		"address": {ID: "address", Width: 1, Position: grid.Position{X: 0, Y: 0}},
		"phone":   {ID: "phone", Width: 0.5, Position: grid.HiddenPosition},
	}

	o, err := interact.New(cfg, layout, interact.WithContainerWidth(600))
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = o.DragStart("phone", interact.Point{X: 10, Y: 5})
	_ = o.DragMove("phone", interact.Point{X: 30, Y: 15})
	_ = o.DragEnd("phone")
	o.Settle()

	for _, p := range o.Layout().Ordered(cfg) {
		fmt.Printf("%s row=%d width=%.2f\n", p.ID, p.Row(cfg), p.Width)
	}
	// Output:
	// phone row=0 width=1.00
	// address row=1 width=1.00
}
