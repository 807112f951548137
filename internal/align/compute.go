package align

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/lineseq"
)

// Compute aligns panes into a common grid under opts, honoring pins and isolated regions.
//
// Pane 0 is the reference: every other pane is pairwise-aligned against it with an LCS method, and the pairwise alignments are folded into one grid over the
// reference axis, so that lines equal to the same reference line share a row. Each pin becomes a mandatory row, and the open ranges strictly between consecutive
// pins are solved independently.
//
// Compute returns a *PinOrderError if pins are not strictly increasing in every pane; the caller keeps its previous table. It returns ctx.Err() if ctx is canceled
// between sub-range solves; a canceled computation never yields a partial table.
func Compute(ctx context.Context, panes []lineseq.LineSequence, pins []Pin, isolates []Isolate, opts eqpolicy.Options) (Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	n := len(panes)
	if n == 0 {
		return Table{}, nil
	}

	paneLens := make([]int, n)
	for p, seq := range panes {
		paneLens[p] = seq.Len()
	}
	if err := validatePins(pins, paneLens); err != nil {
		return Table{}, err
	}

	keys := make([][]string, n)
	for p, seq := range panes {
		keys[p] = make([]string, seq.Len())
		for i, l := range seq.Lines {
			keys[p][i] = opts.Key(l.Content, seq.EOL)
		}
	}
	iso := isolationFlags(paneLens, isolates)

	table := Table{PaneCount: n}
	lo := make([]int, n)
	for k := 0; k <= len(pins); k++ {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}

		hi := paneLens
		if k < len(pins) {
			hi = pins[k].Row
		}

		group := make([][]string, n)
		groupIso := make([][]bool, n)
		for p := 0; p < n; p++ {
			group[p] = keys[p][lo[p]:hi[p]]
			groupIso[p] = iso[p][lo[p]:hi[p]]
		}

		for _, row := range alignGroup(group, groupIso) {
			global := make(Row, n)
			for p, idx := range row {
				if idx == Gap {
					global[p] = Gap
				} else {
					global[p] = idx + lo[p]
				}
			}
			table.Rows = append(table.Rows, global)
		}

		if k < len(pins) {
			pinRow := make(Row, n)
			for p, idx := range pins[k].Row {
				pinRow[p] = idx
				lo[p] = idx + 1
			}
			table.Rows = append(table.Rows, pinRow)
		}
	}

	if err := table.validate(paneLens); err != nil {
		panic(fmt.Errorf("align: Compute produced an invalid table: %v", err))
	}
	return table, nil
}

// isolationFlags expands isolates into a per-pane, per-line flag slice.
func isolationFlags(paneLens []int, isolates []Isolate) [][]bool {
	iso := make([][]bool, len(paneLens))
	for p, l := range paneLens {
		iso[p] = make([]bool, l)
	}
	for _, is := range isolates {
		if is.Pane < 0 || is.Pane >= len(paneLens) {
			continue
		}
		for i := max(is.Start, 0); i < min(is.End, paneLens[is.Pane]); i++ {
			iso[is.Pane][i] = true
		}
	}
	return iso
}

// pairRow is one row of a pairwise alignment: a reference line index and a pane line index, either of which may be Gap (but not both).
type pairRow struct {
	ref, pane int
}

// alignGroup solves one open sub-range. group[p] holds pane p's line keys; indices in the returned rows are local to the sub-range.
//
// Each non-reference pane is pairwise-aligned against the reference, then the pairwise alignments are folded over the reference axis: every pairwise alignment
// visits each reference line exactly once and in order, so rows that consume the same reference line merge into one grid row, and gap rows (pane insertions) stack
// in pane order between reference rows.
func alignGroup(group [][]string, iso [][]bool) []Row {
	n := len(group)
	ref := group[0]

	if n == 1 {
		rows := make([]Row, len(ref))
		for i := range ref {
			rows[i] = Row{i}
		}
		return rows
	}

	aligned := make([][]pairRow, n)
	for p := 1; p < n; p++ {
		aligned[p] = pairAlign(ref, group[p], iso[0], iso[p])
	}

	pos := make([]int, n)
	var rows []Row
	for r := 0; r <= len(ref); r++ {
		// Pane insertions pending before reference line r, in pane order.
		for p := 1; p < n; p++ {
			a := aligned[p]
			for pos[p] < len(a) && a[pos[p]].ref == Gap {
				row := make(Row, n)
				for q := range row {
					row[q] = Gap
				}
				row[p] = a[pos[p]].pane
				rows = append(rows, row)
				pos[p]++
			}
		}
		if r == len(ref) {
			break
		}
		row := make(Row, n)
		row[0] = r
		for p := 1; p < n; p++ {
			row[p] = aligned[p][pos[p]].pane
			pos[p]++
		}
		rows = append(rows, row)
	}
	return rows
}

// pairAlign aligns two key slices with an LCS method. The result visits every index of a and of b exactly once, in order. Equal lines share a row; between equal
// runs, deleted and inserted lines are paired positionally into replace rows (leftovers stay single-sided). Isolated lines are never equal to anything and are
// never paired.
func pairAlign(a, b []string, aIso, bIso []bool) []pairRow {
	in := newInterner()
	ra := make([]rune, len(a))
	for i, k := range a {
		ra[i] = in.intern(k, aIso != nil && aIso[i])
	}
	rb := make([]rune, len(b))
	for i, k := range b {
		rb[i] = in.intern(k, bIso != nil && bIso[i])
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(ra, rb, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var rows []pairRow
	var dels, inss []int
	ai, bi := 0, 0

	flush := func() {
		di, ii := 0, 0
		for di < len(dels) && ii < len(inss) {
			switch {
			case aIso != nil && aIso[dels[di]]:
				rows = append(rows, pairRow{ref: dels[di], pane: Gap})
				di++
			case bIso != nil && bIso[inss[ii]]:
				rows = append(rows, pairRow{ref: Gap, pane: inss[ii]})
				ii++
			default:
				rows = append(rows, pairRow{ref: dels[di], pane: inss[ii]})
				di++
				ii++
			}
		}
		for ; di < len(dels); di++ {
			rows = append(rows, pairRow{ref: dels[di], pane: Gap})
		}
		for ; ii < len(inss); ii++ {
			rows = append(rows, pairRow{ref: Gap, pane: inss[ii]})
		}
		dels = dels[:0]
		inss = inss[:0]
	}

	for _, d := range diffs {
		c := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			for i := 0; i < c; i++ {
				rows = append(rows, pairRow{ref: ai, pane: bi})
				ai++
				bi++
			}
		case diffmatchpatch.DiffDelete:
			for i := 0; i < c; i++ {
				dels = append(dels, ai)
				ai++
			}
		case diffmatchpatch.DiffInsert:
			for i := 0; i < c; i++ {
				inss = append(inss, bi)
				bi++
			}
		}
	}
	flush()
	return rows
}

// interner maps line keys to distinct runes so whole lines diff as single runes (the technique diffmatchpatch uses for line mode, with a pluggable key).
type interner struct {
	m    map[string]rune
	next rune
}

func newInterner() *interner {
	return &interner{m: make(map[string]rune), next: 1}
}

func (in *interner) intern(key string, isolated bool) rune {
	// Isolated lines get a fresh rune each time: never equal to anything.
	if isolated {
		return in.take()
	}
	if r, ok := in.m[key]; ok {
		return r
	}
	r := in.take()
	in.m[key] = r
	return r
}

func (in *interner) take() rune {
	r := in.next
	in.next++
	// Skip the surrogate block; those runes do not survive a string round trip.
	if in.next == 0xD800 {
		in.next = 0xE000
	}
	return r
}
