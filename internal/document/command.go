package document

import (
	"github.com/linealign/linealign/internal/eqpolicy"
)

// Command is a request processed by Document.Do. Commands are tagged variants: the presentation layer builds values, the document validates and executes them.
// Every mutating command is atomic — it either completes fully or leaves the document untouched.
type Command interface {
	isCommand()
}

// Edit replaces lines [Start, End) of one pane with NewContent.
type Edit struct {
	Pane       int
	Start, End int
	NewContent []string
}

// PinRows forces a correspondence: one line index per pane, which must appear verbatim as a row of every recomputed table.
type PinRows struct {
	Row []int
}

// Unpin removes the pin at Index (in pin order).
type Unpin struct {
	Index int
}

// IsolateRange marks lines [Start, End) of Pane as not matchable against other panes during realignment.
type IsolateRange struct {
	Pane       int
	Start, End int
}

// RealignAll drops all pins and isolated regions and recomputes the alignment from scratch.
type RealignAll struct{}

// Direction selects a navigation target.
type Direction int

const (
	First Direction = iota
	Previous
	Next
	Last
)

// Navigate moves the current difference block in the given direction.
type Navigate struct {
	Dir Direction
}

// CopySelection replaces Dst's lines in the given block with Src's.
type CopySelection struct {
	Block    int
	Src, Dst int
}

// CopyInto merges Src's lines into Dst over a row range without deleting unmatched Dst lines.
type CopyInto struct {
	Src, Dst         int
	RowStart, RowEnd int
}

// MergeSequential merges into Dst by copying all blocks from First, then all blocks from Second; rows touched by both take Second's content. "Left then right" and
// "right then left" are the two argument orders.
type MergeSequential struct {
	FirstSrc, SecondSrc int
	Dst                 int
}

// Undo reverts the most recent transaction; a no-op when the undo stack is empty.
type Undo struct{}

// Redo reapplies the most recently undone transaction; a no-op when the redo stack is empty.
type Redo struct{}

// DismissAllEdits reverts every pane to its load-time content, drops pins and isolates, and clears the undo history.
type DismissAllEdits struct{}

// SetOptions replaces the equality policy and reference pane, recomputing alignment and classification.
type SetOptions struct {
	Opts    eqpolicy.Options
	RefPane int
}

func (Edit) isCommand()            {}
func (PinRows) isCommand()         {}
func (Unpin) isCommand()           {}
func (IsolateRange) isCommand()    {}
func (RealignAll) isCommand()      {}
func (Navigate) isCommand()        {}
func (CopySelection) isCommand()   {}
func (CopyInto) isCommand()        {}
func (MergeSequential) isCommand() {}
func (Undo) isCommand()            {}
func (Redo) isCommand()            {}
func (DismissAllEdits) isCommand() {}
func (SetOptions) isCommand()      {}
