// Package merge plans pane mutations (copy and merge across panes) from selected difference blocks.
//
// Every function here is a pure planner: it inspects the alignment table and pane contents and returns an editop.Transaction, mutating nothing. The document layer
// applies the transaction, triggers realignment, and records it for undo — atomically.
package merge

import (
	"fmt"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/diffidx"
	"github.com/linealign/linealign/internal/editop"
	"github.com/linealign/linealign/internal/lineseq"
)

// RangeError reports a merge selection that references rows without the required content. The operation is aborted before any mutation.
type RangeError struct {
	Start, End int // row range of the selection
	Src        int // source pane
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("merge: rows [%d,%d) have no content in pane %d", e.Start, e.End, e.Src)
}

// CopySelection plans replacing dst's lines in block's row range with src's lines at those rows: gap rows in src become deletions in dst, gap rows in dst become
// insertions. It returns a *RangeError if src has no content anywhere in the block.
func CopySelection(table align.Table, panes []*lineseq.Pane, block diffidx.Block, src, dst int) (editop.Transaction, error) {
	if err := checkPanes(table, src, dst); err != nil {
		return editop.Transaction{}, err
	}

	srcLines := takeLines(table, panes, block.Start, block.End, src)
	if len(srcLines) == 0 {
		return editop.Transaction{}, &RangeError{Start: block.Start, End: block.End, Src: src}
	}

	start, end := paneSpan(table, block.Start, block.End, dst)
	removed := append([]lineseq.Line(nil), panes[dst].Seq.Lines[start:end]...)
	return editop.Transaction{
		Label: fmt.Sprintf("copy %s -> %s", panes[src].Name, panes[dst].Name),
		Ops: []editop.Op{{
			Kind:     editop.OpSplice,
			Pane:     dst,
			Start:    start,
			Removed:  removed,
			Inserted: srcLines,
		}},
	}, nil
}

// CopyInto plans merging src's non-gap lines into dst over rows [rowStart, rowEnd) without deleting dst lines that have no src counterpart: rows where both panes
// are present take src's content, rows where only dst is present keep dst's line — a union rather than a replace.
func CopyInto(table align.Table, panes []*lineseq.Pane, src, dst, rowStart, rowEnd int) (editop.Transaction, error) {
	if err := checkPanes(table, src, dst); err != nil {
		return editop.Transaction{}, err
	}
	if rowStart < 0 || rowEnd > len(table.Rows) || rowStart >= rowEnd {
		return editop.Transaction{}, &RangeError{Start: rowStart, End: rowEnd, Src: src}
	}

	hasSrc := false
	var merged []lineseq.Line
	for _, row := range table.Rows[rowStart:rowEnd] {
		switch {
		case row[src] != align.Gap:
			hasSrc = true
			merged = append(merged, lineseq.Line{Content: panes[src].Seq.Lines[row[src]].Content, Modified: true})
		case row[dst] != align.Gap:
			merged = append(merged, panes[dst].Seq.Lines[row[dst]])
		}
	}
	if !hasSrc {
		return editop.Transaction{}, &RangeError{Start: rowStart, End: rowEnd, Src: src}
	}

	start, end := paneSpan(table, rowStart, rowEnd, dst)
	removed := append([]lineseq.Line(nil), panes[dst].Seq.Lines[start:end]...)
	return editop.Transaction{
		Label: fmt.Sprintf("merge %s into %s", panes[src].Name, panes[dst].Name),
		Ops: []editop.Op{{
			Kind:     editop.OpSplice,
			Pane:     dst,
			Start:    start,
			Removed:  removed,
			Inserted: merged,
		}},
	}, nil
}

// CopyAll plans CopySelection from src into dst for every block, bottom-up so earlier splices do not shift later ones. Blocks with no src content empty dst's
// region instead of failing: an N-way merge pass writes "nothing" there on purpose.
func CopyAll(table align.Table, panes []*lineseq.Pane, blocks []diffidx.Block, src, dst int) (editop.Transaction, error) {
	if err := checkPanes(table, src, dst); err != nil {
		return editop.Transaction{}, err
	}

	tx := editop.Transaction{Label: fmt.Sprintf("merge all %s -> %s", panes[src].Name, panes[dst].Name)}
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		srcLines := takeLines(table, panes, b.Start, b.End, src)
		start, end := paneSpan(table, b.Start, b.End, dst)
		if len(srcLines) == 0 && start == end {
			continue
		}
		removed := append([]lineseq.Line(nil), panes[dst].Seq.Lines[start:end]...)
		tx.Ops = append(tx.Ops, editop.Op{
			Kind:     editop.OpSplice,
			Pane:     dst,
			Start:    start,
			Removed:  removed,
			Inserted: srcLines,
		})
	}
	return tx, nil
}

func checkPanes(table align.Table, src, dst int) error {
	if src < 0 || src >= table.PaneCount || dst < 0 || dst >= table.PaneCount || src == dst {
		return fmt.Errorf("merge: invalid pane pair src=%d dst=%d", src, dst)
	}
	return nil
}

// takeLines collects pane's lines at the non-gap rows of [rowStart, rowEnd), as fresh modified lines for insertion elsewhere.
func takeLines(table align.Table, panes []*lineseq.Pane, rowStart, rowEnd, pane int) []lineseq.Line {
	var out []lineseq.Line
	for _, row := range table.Rows[rowStart:rowEnd] {
		if row[pane] != align.Gap {
			out = append(out, lineseq.Line{Content: panes[pane].Seq.Lines[row[pane]].Content, Modified: true})
		}
	}
	return out
}

// paneSpan returns the line range [start, end) that pane occupies within rows [rowStart, rowEnd). When the pane has no lines there, both bounds are the insertion
// point implied by the nearest preceding row where the pane is present.
func paneSpan(table align.Table, rowStart, rowEnd, pane int) (int, int) {
	start, end := -1, -1
	for _, row := range table.Rows[rowStart:rowEnd] {
		if row[pane] == align.Gap {
			continue
		}
		if start == -1 {
			start = row[pane]
		}
		end = row[pane] + 1
	}
	if start != -1 {
		return start, end
	}
	for i := rowStart - 1; i >= 0; i-- {
		if idx := table.Rows[i][pane]; idx != align.Gap {
			return idx + 1, idx + 1
		}
	}
	return 0, 0
}
