package align

import "fmt"

// validate checks the Table invariants against the given pane lengths and returns an error on the first violation.
func (t Table) validate(paneLens []int) error {
	if t.PaneCount != len(paneLens) {
		return fmt.Errorf("pane count %d != %d", t.PaneCount, len(paneLens))
	}
	next := make([]int, t.PaneCount)
	for ri, row := range t.Rows {
		if len(row) != t.PaneCount {
			return fmt.Errorf("row[%d]: has %d entries, want %d", ri, len(row), t.PaneCount)
		}
		nonGap := 0
		for p, idx := range row {
			if idx == Gap {
				continue
			}
			nonGap++
			if idx != next[p] {
				return fmt.Errorf("row[%d]: pane %d index %d, want %d (indices must be contiguous and increasing)", ri, p, idx, next[p])
			}
			next[p]++
		}
		if nonGap == 0 {
			return fmt.Errorf("row[%d]: all entries are gaps", ri)
		}
	}
	for p, l := range paneLens {
		if next[p] != l {
			return fmt.Errorf("pane %d: table covers %d of %d lines", p, next[p], l)
		}
	}
	return nil
}
