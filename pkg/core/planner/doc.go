// Package planner decides where a dragged field lands in a target row.
//
// # Overview
//
// While a field is dragged over the grid, the planner produces a preview
// layout for the row under the pointer. It tries, in order:
//
//  1. Resize: if the row is not full, shrink or grow the dragged field to the
//     widest allowed width that fits the row's free space and differs from
//     its current width, at the first free column.
//  2. Direct: place the field at its current width at the first free column.
//  3. Push-down: put the field at column 0 of the row and move every field at
//     or below that row down by one.
//
// Push-down always succeeds. When it would move fields past the last row,
// they are clamped onto the last row, a warning is logged and the plan is
// marked Clamped.
//
// # Determinism
//
// Planning never depends on map iteration order. Fields are visited sorted
// by row, then x, then id, so the same inputs always yield the same plan.
//
// # Usage
//
//	p := planner.New(grid.Default())
//	plan := p.Preview(dragged, row, baseline)
//	fmt.Println(plan.Strategy, plan.Column)
package planner
