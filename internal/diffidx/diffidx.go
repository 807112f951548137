// Package diffidx classifies alignment rows and groups them into navigable difference blocks.
//
// Classification is relative to a designated reference pane and the active equality policy. Blocks are derived state: they are recomputed whenever the table or
// the policy changes, never stored across mutations.
package diffidx

import (
	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/lineseq"
)

// Kind classifies one alignment row.
type Kind int

const (
	// Same: every pane present and all lines equal under the policy.
	Same Kind = iota
	// Changed: every pane present but the lines differ.
	Changed
	// Inserted: absent in the reference pane, present elsewhere.
	Inserted
	// Deleted: present in the reference pane, absent in some other pane.
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Same:
		return "same"
	case Changed:
		return "changed"
	case Inserted:
		return "inserted"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Block is a maximal contiguous run of non-Same rows [Start, End). Kind is the run's single row kind, or Changed for mixed runs.
type Block struct {
	Start int
	End   int
	Kind  Kind
}

// ClassifyRow classifies a single row.
func ClassifyRow(row align.Row, panes []lineseq.LineSequence, opts eqpolicy.Options, refPane int) Kind {
	allPresent := true
	allBlank := true
	for p, idx := range row {
		if idx == align.Gap {
			allPresent = false
			continue
		}
		if !opts.Blank(panes[p].Lines[idx].Content) {
			allBlank = false
		}
	}
	if opts.IgnoreBlankLines && allBlank {
		return Same
	}

	if allPresent {
		first := panes[0]
		for p := 1; p < len(row); p++ {
			if !opts.Equal(first.Lines[row[0]].Content, first.EOL, panes[p].Lines[row[p]].Content, panes[p].EOL) {
				return Changed
			}
		}
		return Same
	}
	if row[refPane] == align.Gap {
		return Inserted
	}
	return Deleted
}

// Classify returns the maximal runs of non-Same rows, in row order.
func Classify(table align.Table, panes []lineseq.LineSequence, opts eqpolicy.Options, refPane int) []Block {
	var blocks []Block
	var cur *Block
	for i, row := range table.Rows {
		k := ClassifyRow(row, panes, opts, refPane)
		if k == Same {
			cur = nil
			continue
		}
		if cur != nil && cur.End == i {
			cur.End = i + 1
			if cur.Kind != k {
				cur.Kind = Changed
			}
			continue
		}
		blocks = append(blocks, Block{Start: i, End: i + 1, Kind: k})
		cur = &blocks[len(blocks)-1]
	}
	return blocks
}

// First returns the index of the first block, or ok=false if there are none.
func First(blocks []Block) (int, bool) {
	if len(blocks) == 0 {
		return -1, false
	}
	return 0, true
}

// Last returns the index of the last block, or ok=false if there are none.
func Last(blocks []Block) (int, bool) {
	if len(blocks) == 0 {
		return -1, false
	}
	return len(blocks) - 1, true
}

// Next returns the block after cur (pass -1 for "no current block"). When cur is the last block, Next wraps to the first and reports wrapped=true so callers can
// prompt before continuing from the opposite end.
func Next(blocks []Block, cur int) (idx int, wrapped, ok bool) {
	if len(blocks) == 0 {
		return -1, false, false
	}
	if cur < 0 {
		return 0, false, true
	}
	if cur+1 >= len(blocks) {
		return 0, true, true
	}
	return cur + 1, false, true
}

// Previous returns the block before cur (pass -1 for "no current block"), wrapping to the last block with wrapped=true.
func Previous(blocks []Block, cur int) (idx int, wrapped, ok bool) {
	if len(blocks) == 0 {
		return -1, false, false
	}
	if cur < 0 {
		return len(blocks) - 1, false, true
	}
	if cur == 0 {
		return len(blocks) - 1, true, true
	}
	return cur - 1, false, true
}
