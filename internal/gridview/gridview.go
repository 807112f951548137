// Package gridview renders an alignment table side by side for terminals: one column per pane, one output line per table row, with a leading marker for the
// row's classification.
//
// Widths are display-cell widths (grapheme-aware), not byte or rune counts, so CJK text and combining characters line up.
package gridview

import (
	"fmt"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/diffidx"
	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/lineseq"
)

const (
	separator    = " | "
	ellipsis     = "…"
	minCellWidth = 8
)

// Options control rendering.
type Options struct {
	// Width is the total output width in cells.
	Width int
	// EastAsianWidth treats ambiguous East Asian code points as 2 cells wide. Use when the locale is CJK.
	EastAsianWidth bool
}

// Markers by row kind: ' ' same, '*' changed, '+' inserted, '-' deleted.
func marker(k diffidx.Kind) byte {
	switch k {
	case diffidx.Changed:
		return '*'
	case diffidx.Inserted:
		return '+'
	case diffidx.Deleted:
		return '-'
	default:
		return ' '
	}
}

// Render writes the table as one line per row. Pane headers come first, then a rule, then the rows.
func Render(table align.Table, seqs []lineseq.LineSequence, names []string, opts eqpolicy.Options, refPane int, view Options) string {
	cond := condition(view)
	cell := cellWidth(view.Width, table.PaneCount)

	var b strings.Builder
	writeRow(&b, ' ', names, cell, cond)
	b.WriteByte(' ')
	b.WriteByte(' ')
	b.WriteString(strings.Repeat("-", (cell+len(separator))*table.PaneCount-len(separator)))
	b.WriteByte('\n')

	cells := make([]string, table.PaneCount)
	for _, row := range table.Rows {
		for p, idx := range row {
			if idx == align.Gap {
				cells[p] = ""
			} else {
				cells[p] = seqs[p].Lines[idx].Content
			}
		}
		writeRow(&b, marker(diffidx.ClassifyRow(row, seqs, opts, refPane)), cells, cell, cond)
	}
	return b.String()
}

func writeRow(b *strings.Builder, mark byte, cells []string, width int, cond *runewidth.Condition) {
	b.WriteByte(mark)
	b.WriteByte(' ')
	for i, c := range cells {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(pad(truncate(c, width, cond), width, cond))
	}
	b.WriteByte('\n')
}

// Summarize reports block counts by kind, or "identical" when there are none.
func Summarize(blocks []diffidx.Block) string {
	if len(blocks) == 0 {
		return "identical"
	}
	counts := map[diffidx.Kind]int{}
	for _, blk := range blocks {
		counts[blk.Kind]++
	}
	parts := make([]string, 0, 3)
	for _, k := range []diffidx.Kind{diffidx.Changed, diffidx.Inserted, diffidx.Deleted} {
		if counts[k] > 0 {
			parts = append(parts, plural(counts[k], k.String()+" block"))
		}
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func condition(view Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = view.EastAsianWidth
	cond.StrictEmojiNeutral = !view.EastAsianWidth
	return cond
}

// cellWidth divides the total width among pane columns, leaving room for the marker and separators.
func cellWidth(total, panes int) int {
	w := (total - 2 - len(separator)*(panes-1)) / panes
	if w < minCellWidth {
		return minCellWidth
	}
	return w
}

// truncate cuts s at a grapheme boundary so it fits in width cells, ending with an ellipsis when anything was cut.
func truncate(s string, width int, cond *runewidth.Condition) string {
	if cond.StringWidth(s) <= width {
		return s
	}
	budget := width - cond.StringWidth(ellipsis)
	used := 0
	end := 0
	iter := graphemes.FromString(s)
	for iter.Next() {
		w := cond.StringWidth(iter.Value())
		if used+w > budget {
			break
		}
		used += w
		end = iter.End()
	}
	return s[:end] + ellipsis
}

func pad(s string, width int, cond *runewidth.Condition) string {
	gap := width - cond.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
