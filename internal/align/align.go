// Package align computes a common-grid line correspondence across N panes.
//
// Representation: a Table is an ordered list of Rows; each Row holds, per pane, either a line index or Gap. The table is the "common grid": reading one pane's
// column top to bottom yields that pane's lines in order, interleaved with gaps where other panes have content this pane lacks.
//
// Invariants:
//   - Every Row has at least one non-Gap entry.
//   - Within a pane, the non-Gap indices are strictly increasing across rows (no reordering, no reuse).
//   - The non-Gap entries of a pane cover every line of that pane exactly once.
//
// Pins partition the alignment problem: each Pin is a mandatory row, and the open ranges strictly between consecutive pins are solved independently. Isolated
// regions are aligned against themselves only; their lines never match content in other panes.
//
// Tie-break: a line equal to several reference candidates matches the earliest unconsumed reference line; within a reference gap, unmatched insertion runs are
// emitted in pane order. This is deterministic and locked in by tests.
package align

import (
	"fmt"
)

// Gap marks a pane with no line in a Row.
const Gap = -1

// Row is one row of the common grid: a line index per pane, or Gap.
type Row []int

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table is the full common-grid correspondence. See the package doc for invariants.
type Table struct {
	Rows      []Row
	PaneCount int
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{PaneCount: t.PaneCount, Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// RowForPaneLine returns the index of the row holding line of pane, or -1 if absent.
func (t Table) RowForPaneLine(pane, line int) int {
	for i, r := range t.Rows {
		if r[pane] == line {
			return i
		}
	}
	return -1
}

// Pin is a user-forced correspondence: one line index per pane. A valid pin list is strictly increasing in every pane; each pin becomes a mandatory row of any
// recomputed table.
type Pin struct {
	Row []int
}

// Isolate marks lines [Start, End) of Pane as not matchable against other panes' content during alignment.
type Isolate struct {
	Pane  int
	Start int
	End   int
}

// EditedRange describes a single contiguous edit in one pane, in post-edit coordinates: lines [Start, End) hold the new content, and Delta is the change in the
// pane's total line count.
type EditedRange struct {
	Pane  int
	Start int
	End   int
	Delta int
}

// PinOrderError reports a pin list that is not strictly increasing in every pane (or a pin that is out of bounds). The previous table remains valid; no partial
// table is published.
type PinOrderError struct {
	Index int // index of the offending pin
}

func (e *PinOrderError) Error() string {
	return fmt.Sprintf("align: pin %d is out of order or out of bounds", e.Index)
}

// validatePins checks bounds and strict per-pane monotonicity of pins against the given pane lengths.
func validatePins(pins []Pin, paneLens []int) error {
	prev := make([]int, len(paneLens))
	for i := range prev {
		prev[i] = -1
	}
	for k, p := range pins {
		if len(p.Row) != len(paneLens) {
			return &PinOrderError{Index: k}
		}
		for pane, idx := range p.Row {
			if idx < 0 || idx >= paneLens[pane] || idx <= prev[pane] {
				return &PinOrderError{Index: k}
			}
			prev[pane] = idx
		}
	}
	return nil
}
