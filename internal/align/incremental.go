package align

import (
	"context"
	"fmt"

	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/lineseq"
)

// Recompute splices a fresh alignment of the region around a single contiguous edit into prev, leaving the untouched prefix and suffix alone. This bounds the work
// to the neighborhood of the edit rather than the whole document.
//
// prev is the table computed before the edit; panes hold the post-edit content; pins are given in post-edit coordinates (the caller shifts them); edit describes the
// edited range in post-edit coordinates. The recompute window is bounded by the nearest anchor row on each side of the edit: a pin row, or a row where every pane is
// present and all lines are equal under opts. Without an anchor the window extends to the document boundary.
func Recompute(ctx context.Context, prev Table, panes []lineseq.LineSequence, pins []Pin, isolates []Isolate, opts eqpolicy.Options, edit EditedRange) (Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	n := len(panes)
	if edit.Pane < 0 || edit.Pane >= n || prev.PaneCount != n {
		return Compute(ctx, panes, pins, isolates, opts)
	}

	paneLens := make([]int, n)
	for p, seq := range panes {
		paneLens[p] = seq.Len()
	}
	if err := validatePins(pins, paneLens); err != nil {
		return Table{}, err
	}
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	p := edit.Pane
	preStart := edit.Start
	preEnd := edit.End - edit.Delta // exclusive end of the replaced range, pre-edit coordinates

	keys := make([][]string, n)
	for q, seq := range panes {
		keys[q] = make([]string, seq.Len())
		for i, l := range seq.Lines {
			keys[q][i] = opts.Key(l.Content, seq.EOL)
		}
	}

	// post maps a prev (pre-edit) index of the edited pane to post-edit coordinates.
	post := func(idx int) int {
		if idx == Gap || idx < preEnd {
			return idx
		}
		return idx + edit.Delta
	}

	isAnchor := func(row Row) bool {
		for _, pin := range pins {
			hit := true
			for q, idx := range row {
				want := idx
				if q == p {
					want = post(idx)
				}
				if want != pin.Row[q] {
					hit = false
					break
				}
			}
			if hit {
				return true
			}
		}
		var firstKey string
		for q, idx := range row {
			if idx == Gap {
				return false
			}
			if q == p {
				idx = post(idx)
			}
			if idx < 0 || idx >= len(keys[q]) {
				return false
			}
			if q == 0 {
				firstKey = keys[q][idx]
			} else if keys[q][idx] != firstKey {
				return false
			}
		}
		return true
	}

	// Rows at or after editTop touch the replaced range (or sit below it).
	editTop := len(prev.Rows)
	for i, row := range prev.Rows {
		if row[p] != Gap && row[p] >= preStart {
			editTop = i
			break
		}
	}
	editBottom := editTop - 1 // last row whose edited-pane entry is inside the replaced range
	for i := editTop; i < len(prev.Rows); i++ {
		if prev.Rows[i][p] != Gap && prev.Rows[i][p] < preEnd {
			editBottom = i
		}
	}

	lo := -1
	for i := editTop - 1; i >= 0; i-- {
		if prev.Rows[i][p] != Gap && prev.Rows[i][p] >= preStart {
			continue
		}
		if isAnchor(prev.Rows[i]) {
			lo = i
			break
		}
	}
	hi := len(prev.Rows)
	for i := editBottom + 1; i < len(prev.Rows); i++ {
		if prev.Rows[i][p] != Gap && prev.Rows[i][p] < preEnd {
			continue
		}
		if isAnchor(prev.Rows[i]) {
			hi = i
			break
		}
	}

	// Post-edit line ranges of the recompute window, per pane.
	start := make([]int, n)
	end := make([]int, n)
	for q := 0; q < n; q++ {
		if lo >= 0 {
			idx := prev.Rows[lo][q]
			if q == p {
				idx = post(idx)
			}
			start[q] = idx + 1
		}
		end[q] = paneLens[q]
		if hi < len(prev.Rows) {
			idx := prev.Rows[hi][q]
			if q == p {
				idx = post(idx)
			}
			end[q] = idx
		}
	}

	iso := isolationFlags(paneLens, isolates)
	group := make([][]string, n)
	groupIso := make([][]bool, n)
	for q := 0; q < n; q++ {
		group[q] = keys[q][start[q]:end[q]]
		groupIso[q] = iso[q][start[q]:end[q]]
	}

	out := Table{PaneCount: n}
	for i := 0; i <= lo; i++ {
		out.Rows = append(out.Rows, prev.Rows[i].Clone())
	}
	for _, row := range alignGroup(group, groupIso) {
		global := make(Row, n)
		for q, idx := range row {
			if idx == Gap {
				global[q] = Gap
			} else {
				global[q] = idx + start[q]
			}
		}
		out.Rows = append(out.Rows, global)
	}
	for i := hi; i < len(prev.Rows); i++ {
		row := prev.Rows[i].Clone()
		if row[p] != Gap {
			row[p] = post(row[p])
		}
		out.Rows = append(out.Rows, row)
	}

	if err := out.validate(paneLens); err != nil {
		panic(fmt.Errorf("align: Recompute produced an invalid table: %v", err))
	}
	return out, nil
}

// ShiftPins returns pins adjusted for edit: pin entries of the edited pane at or past the replaced range shift by Delta. Pins whose edited-pane entry falls inside
// the replaced range are dropped (the pinned line no longer exists).
func ShiftPins(pins []Pin, edit EditedRange) []Pin {
	preEnd := edit.End - edit.Delta
	var out []Pin
	for _, pin := range pins {
		idx := pin.Row[edit.Pane]
		switch {
		case idx < edit.Start:
			out = append(out, pin)
		case idx < preEnd:
			// pinned line was replaced
		default:
			shifted := Pin{Row: append([]int(nil), pin.Row...)}
			shifted.Row[edit.Pane] = idx + edit.Delta
			out = append(out, shifted)
		}
	}
	return out
}

// ShiftIsolates returns isolates adjusted for edit, dropping any isolate that intersects the replaced range.
func ShiftIsolates(isolates []Isolate, edit EditedRange) []Isolate {
	preEnd := edit.End - edit.Delta
	var out []Isolate
	for _, is := range isolates {
		switch {
		case is.Pane != edit.Pane, is.End <= edit.Start:
			out = append(out, is)
		case is.Start >= preEnd:
			out = append(out, Isolate{Pane: is.Pane, Start: is.Start + edit.Delta, End: is.End + edit.Delta})
		default:
			// intersects the replaced range
		}
	}
	return out
}
