// Package editop records pane and alignment-state mutations as invertible operations, grouped into atomic transactions. Transactions are the unit of undo/redo.
package editop

import (
	"fmt"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/lineseq"
)

// OpKind discriminates the Op variants.
type OpKind int

const (
	// OpSplice replaces a line range in one pane.
	OpSplice OpKind = iota
	// OpAddPin appends a pin; OpRemovePin removes it.
	OpAddPin
	OpRemovePin
	// OpAddIsolate appends an isolated region; OpRemoveIsolate removes it.
	OpAddIsolate
	OpRemoveIsolate
)

// Op is a single invertible mutation.
//
// For OpSplice, pane lines [Start, Start+len(Removed)) are replaced by Inserted. For the pin/isolate kinds, Pin or Iso carries the payload; Start/Removed/Inserted
// are unused.
type Op struct {
	Kind     OpKind
	Pane     int
	Start    int
	Removed  []lineseq.Line
	Inserted []lineseq.Line
	Pin      align.Pin
	Iso      align.Isolate
}

// Invert returns the op that undoes op.
func (o Op) Invert() Op {
	switch o.Kind {
	case OpSplice:
		return Op{Kind: OpSplice, Pane: o.Pane, Start: o.Start, Removed: o.Inserted, Inserted: o.Removed}
	case OpAddPin:
		return Op{Kind: OpRemovePin, Pin: o.Pin}
	case OpRemovePin:
		return Op{Kind: OpAddPin, Pin: o.Pin}
	case OpAddIsolate:
		return Op{Kind: OpRemoveIsolate, Iso: o.Iso}
	case OpRemoveIsolate:
		return Op{Kind: OpAddIsolate, Iso: o.Iso}
	default:
		panic(fmt.Sprintf("editop: unknown op kind %d", o.Kind))
	}
}

// Transaction is an ordered group of ops applied (and undone) atomically.
type Transaction struct {
	Label string
	Ops   []Op
}

// Invert returns the transaction that undoes tx: each op inverted, in reverse order.
func (tx Transaction) Invert() Transaction {
	out := Transaction{Label: tx.Label, Ops: make([]Op, 0, len(tx.Ops))}
	for i := len(tx.Ops) - 1; i >= 0; i-- {
		out.Ops = append(out.Ops, tx.Ops[i].Invert())
	}
	return out
}

// State is the mutable alignment state a transaction applies to.
type State struct {
	Panes    []*lineseq.Pane
	Pins     []align.Pin
	Isolates []align.Isolate
}

// Apply applies every op of tx to st, in order.
func Apply(st *State, tx Transaction) {
	for _, op := range tx.Ops {
		applyOp(st, op)
	}
}

func applyOp(st *State, op Op) {
	switch op.Kind {
	case OpSplice:
		st.Panes[op.Pane].Splice(op.Start, op.Start+len(op.Removed), op.Inserted)
	case OpAddPin:
		st.Pins = insertPin(st.Pins, op.Pin)
	case OpRemovePin:
		st.Pins = removePin(st.Pins, op.Pin)
	case OpAddIsolate:
		st.Isolates = append(st.Isolates, op.Iso)
	case OpRemoveIsolate:
		st.Isolates = removeIsolate(st.Isolates, op.Iso)
	default:
		panic(fmt.Sprintf("editop: unknown op kind %d", op.Kind))
	}
}

// insertPin keeps the pin list ordered by the first pane's line index.
func insertPin(pins []align.Pin, pin align.Pin) []align.Pin {
	at := len(pins)
	for i, p := range pins {
		if p.Row[0] > pin.Row[0] {
			at = i
			break
		}
	}
	out := make([]align.Pin, 0, len(pins)+1)
	out = append(out, pins[:at]...)
	out = append(out, pin)
	out = append(out, pins[at:]...)
	return out
}

func removePin(pins []align.Pin, pin align.Pin) []align.Pin {
	for i, p := range pins {
		if samePin(p, pin) {
			return append(pins[:i:i], pins[i+1:]...)
		}
	}
	return pins
}

func samePin(a, b align.Pin) bool {
	if len(a.Row) != len(b.Row) {
		return false
	}
	for i := range a.Row {
		if a.Row[i] != b.Row[i] {
			return false
		}
	}
	return true
}

func removeIsolate(isolates []align.Isolate, iso align.Isolate) []align.Isolate {
	for i, is := range isolates {
		if is == iso {
			return append(isolates[:i:i], isolates[i+1:]...)
		}
	}
	return isolates
}
