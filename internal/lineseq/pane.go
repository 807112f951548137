package lineseq

import (
	"fmt"

	"github.com/google/uuid"
)

// Pane is one text buffer participating in a comparison. Panes are owned by exactly one document and never shared.
type Pane struct {
	ID   uuid.UUID
	Name string
	Seq  LineSequence

	// Dirty reports whether the pane changed since load (or since the last confirmed save).
	Dirty bool

	// loaded is the load-time snapshot, kept for reverting all edits.
	loaded LineSequence
}

// NewPane creates a pane owning seq. The load-time content is snapshotted so all edits can later be dismissed.
func NewPane(name string, seq LineSequence) *Pane {
	return &Pane{
		ID:     uuid.New(),
		Name:   name,
		Seq:    seq,
		loaded: seq.Clone(),
	}
}

// Splice replaces lines [start, end) with repl and marks the pane dirty. It returns the removed lines (for building inverses).
//
// Splice panics on an out-of-bounds range; callers validate ranges before mutating.
func (p *Pane) Splice(start, end int, repl []Line) []Line {
	if start < 0 || end < start || end > len(p.Seq.Lines) {
		panic(fmt.Sprintf("lineseq: splice [%d,%d) out of bounds for %d lines", start, end, len(p.Seq.Lines)))
	}
	removed := make([]Line, end-start)
	copy(removed, p.Seq.Lines[start:end])

	ins := make([]Line, len(repl))
	copy(ins, repl)

	out := make([]Line, 0, len(p.Seq.Lines)-len(removed)+len(ins))
	out = append(out, p.Seq.Lines[:start]...)
	out = append(out, ins...)
	out = append(out, p.Seq.Lines[end:]...)
	p.Seq.Lines = out
	p.Dirty = true
	return removed
}

// Loaded returns a copy of the load-time content.
func (p *Pane) Loaded() LineSequence { return p.loaded.Clone() }

// RevertToLoaded restores the load-time content and clears the dirty flag.
func (p *Pane) RevertToLoaded() {
	p.Seq = p.loaded.Clone()
	p.Dirty = false
}

// MarkSaved records that an external save collaborator confirmed success: the current content becomes the new baseline.
func (p *Pane) MarkSaved() {
	p.loaded = p.Seq.Clone()
	p.Dirty = false
}
