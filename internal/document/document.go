// Package document owns one comparison instance: its panes, current alignment table, difference blocks, and undo history. All mutations flow through Do as
// commands; every mutating command validates first, applies atomically, realigns, and records an invertible transaction.
//
// Documents are self-contained values: nothing is shared between documents, so multiple open comparisons need no coordination.
package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/diffidx"
	"github.com/linealign/linealign/internal/editop"
	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/lineseq"
	"github.com/linealign/linealign/internal/logging"
	"github.com/linealign/linealign/internal/merge"
)

// State is the document lifecycle state: Clean until a mutation, Dirty until an external save collaborator confirms success for every dirty pane.
type State int

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Result is the view-state descriptor returned by every command: the row range to redraw, the current difference blocks, and navigation state.
type Result struct {
	// AffectedStart/AffectedEnd is the row range [start, end) of the new table that differs from the previous one; empty when nothing moved.
	AffectedStart, AffectedEnd int

	Blocks  []diffidx.Block
	Current int // index into Blocks, -1 if none
	Wrapped bool
	State   State
}

// Document is one open comparison.
type Document struct {
	ID uuid.UUID

	panes    []*lineseq.Pane
	opts     eqpolicy.Options
	refPane  int
	table    align.Table
	pins     []align.Pin
	isolates []align.Isolate

	blocks  []diffidx.Block
	current int

	history undoStack

	// gen increments on every mutation; Realign discards results computed against an older generation.
	gen uint64
}

// New creates a document over panes and computes the initial alignment.
func New(ctx context.Context, panes []*lineseq.Pane, opts eqpolicy.Options) (*Document, error) {
	if len(panes) < 1 {
		return nil, fmt.Errorf("document: need at least one pane")
	}
	d := &Document{
		ID:      uuid.New(),
		panes:   panes,
		opts:    opts,
		current: -1,
	}
	table, err := align.Compute(ctx, d.seqs(), nil, nil, opts)
	if err != nil {
		return nil, err
	}
	d.table = table
	d.reclassify()
	return d, nil
}

// Panes returns the document's panes. Callers must not mutate them directly; all mutations go through Do.
func (d *Document) Panes() []*lineseq.Pane { return d.panes }

// Table returns the current alignment table.
func (d *Document) Table() align.Table { return d.table }

// Blocks returns the current difference blocks.
func (d *Document) Blocks() []diffidx.Block { return d.blocks }

// Options returns the active equality policy.
func (d *Document) Options() eqpolicy.Options { return d.opts }

// RefPane returns the reference pane index used for classification.
func (d *Document) RefPane() int { return d.refPane }

// Pins returns the active pins.
func (d *Document) Pins() []align.Pin { return d.pins }

// State reports Clean iff no pane has unsaved changes.
func (d *Document) State() State {
	for _, p := range d.panes {
		if p.Dirty {
			return Dirty
		}
	}
	return Clean
}

// MarkSaved records that the save collaborator confirmed a successful save of pane.
func (d *Document) MarkSaved(pane int) {
	if pane >= 0 && pane < len(d.panes) {
		d.panes[pane].MarkSaved()
	}
}

// CanUndo reports whether an undo transaction is available.
func (d *Document) CanUndo() bool { return len(d.history.undo) > 0 }

// CanRedo reports whether a redo transaction is available.
func (d *Document) CanRedo() bool { return len(d.history.redo) > 0 }

// Realign recomputes the table from the current state. If the document mutated while the computation ran, or ctx was canceled, the stale result is discarded and
// the previous table is retained.
func (d *Document) Realign(ctx context.Context) error {
	gen := d.gen
	table, err := align.Compute(ctx, d.seqs(), d.pins, d.isolates, d.opts)
	if err != nil {
		return err
	}
	if d.gen != gen {
		logging.L().Debug("discarding superseded realign result", zap.Uint64("gen", gen))
		return nil
	}
	d.table = table
	d.reclassify()
	return nil
}

// Do validates and executes cmd, returning the view-state descriptor or a typed error. On error, the document is unchanged.
func (d *Document) Do(ctx context.Context, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Edit:
		return d.doEdit(ctx, c)
	case PinRows:
		return d.doPin(ctx, c)
	case Unpin:
		return d.doUnpin(ctx, c)
	case IsolateRange:
		return d.doIsolate(ctx, c)
	case RealignAll:
		return d.doRealignAll(ctx)
	case Navigate:
		return d.doNavigate(c)
	case CopySelection:
		return d.doCopySelection(ctx, c)
	case CopyInto:
		return d.doCopyInto(ctx, c)
	case MergeSequential:
		return d.doMergeSequential(ctx, c)
	case Undo:
		return d.doUndo(ctx)
	case Redo:
		return d.doRedo(ctx)
	case DismissAllEdits:
		return d.doDismiss(ctx)
	case SetOptions:
		return d.doSetOptions(ctx, c)
	default:
		return Result{}, fmt.Errorf("document: unknown command %T", cmd)
	}
}

func (d *Document) seqs() []lineseq.LineSequence {
	out := make([]lineseq.LineSequence, len(d.panes))
	for i, p := range d.panes {
		out[i] = p.Seq
	}
	return out
}

func (d *Document) reclassify() {
	d.blocks = diffidx.Classify(d.table, d.seqs(), d.opts, d.refPane)
	d.current = -1
}

func (d *Document) result(prev align.Table, wrapped bool) Result {
	start, end := affectedRows(prev, d.table)
	return Result{
		AffectedStart: start,
		AffectedEnd:   end,
		Blocks:        d.blocks,
		Current:       d.current,
		Wrapped:       wrapped,
		State:         d.State(),
	}
}

// affectedRows trims the common row prefix and suffix of two tables and returns the changed range in next's coordinates.
func affectedRows(prev, next align.Table) (int, int) {
	top := 0
	for top < len(prev.Rows) && top < len(next.Rows) && rowsEqual(prev.Rows[top], next.Rows[top]) {
		top++
	}
	pb, nb := len(prev.Rows), len(next.Rows)
	for pb > top && nb > top && rowsEqual(prev.Rows[pb-1], next.Rows[nb-1]) {
		pb--
		nb--
	}
	return top, nb
}

func rowsEqual(a, b align.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

//
// Mutation core
//

// applySplices applies splice ops in order, shifting pins and isolates past each edit, and recomputes the table (incrementally for a single splice). It returns
// the full recorded transaction. On recompute failure the mutation is unwound and the previous state restored.
func (d *Document) applySplices(ctx context.Context, label string, splices []editop.Op, incremental bool) (editop.Transaction, error) {
	prev := d.table
	rec := editop.Transaction{Label: label}
	st := &editop.State{Panes: d.panes, Pins: d.pins, Isolates: d.isolates}

	var edits []align.EditedRange
	for _, op := range splices {
		edit := align.EditedRange{
			Pane:  op.Pane,
			Start: op.Start,
			End:   op.Start + len(op.Inserted),
			Delta: len(op.Inserted) - len(op.Removed),
		}
		adjust := adjustOps(st.Pins, align.ShiftPins(st.Pins, edit), st.Isolates, align.ShiftIsolates(st.Isolates, edit))

		step := editop.Transaction{Ops: append([]editop.Op{op}, adjust...)}
		editop.Apply(st, step)
		rec.Ops = append(rec.Ops, step.Ops...)
		edits = append(edits, edit)
	}
	d.pins = st.Pins
	d.isolates = st.Isolates

	var next align.Table
	var err error
	if incremental && len(edits) == 1 {
		next, err = align.Recompute(ctx, prev, d.seqs(), d.pins, d.isolates, d.opts, edits[0])
	} else {
		next, err = align.Compute(ctx, d.seqs(), d.pins, d.isolates, d.opts)
	}
	if err != nil {
		// Unwind; applying inverses cannot fail.
		editop.Apply(st, rec.Invert())
		d.pins = st.Pins
		d.isolates = st.Isolates
		return editop.Transaction{}, err
	}

	d.table = next
	d.gen++
	d.reclassify()
	return rec, nil
}

// commitAlignmentChange validates candidate pins/isolates by computing the would-be table first, then commits ops and the new table. True check-then-act: a
// failing compute leaves the document untouched.
func (d *Document) commitAlignmentChange(ctx context.Context, label string, ops []editop.Op, pins []align.Pin, isolates []align.Isolate) (Result, error) {
	next, err := align.Compute(ctx, d.seqs(), pins, isolates, d.opts)
	if err != nil {
		return Result{}, err
	}
	prev := d.table
	st := &editop.State{Panes: d.panes, Pins: d.pins, Isolates: d.isolates}
	tx := editop.Transaction{Label: label, Ops: ops}
	editop.Apply(st, tx)
	d.pins = st.Pins
	d.isolates = st.Isolates
	d.table = next
	d.gen++
	d.reclassify()
	d.history.push(tx)
	return d.result(prev, false), nil
}

//
// Commands
//

func (d *Document) doEdit(ctx context.Context, c Edit) (Result, error) {
	if c.Pane < 0 || c.Pane >= len(d.panes) {
		return Result{}, fmt.Errorf("document: edit: no pane %d", c.Pane)
	}
	n := d.panes[c.Pane].Seq.Len()
	if c.Start < 0 || c.End < c.Start || c.End > n {
		return Result{}, fmt.Errorf("document: edit: range [%d,%d) out of bounds for %d lines", c.Start, c.End, n)
	}

	inserted := make([]lineseq.Line, len(c.NewContent))
	for i, s := range c.NewContent {
		inserted[i] = lineseq.Line{Content: s, Modified: true}
	}
	op := editop.Op{
		Kind:     editop.OpSplice,
		Pane:     c.Pane,
		Start:    c.Start,
		Removed:  append([]lineseq.Line(nil), d.panes[c.Pane].Seq.Lines[c.Start:c.End]...),
		Inserted: inserted,
	}

	prev := d.table
	rec, err := d.applySplices(ctx, "edit", []editop.Op{op}, true)
	if err != nil {
		return Result{}, err
	}
	d.history.push(rec)
	return d.result(prev, false), nil
}

func (d *Document) doPin(ctx context.Context, c PinRows) (Result, error) {
	if len(c.Row) != len(d.panes) {
		return Result{}, fmt.Errorf("document: pin: got %d indices for %d panes", len(c.Row), len(d.panes))
	}
	pin := align.Pin{Row: append([]int(nil), c.Row...)}
	candidate := insertPinSorted(d.pins, pin)
	return d.commitAlignmentChange(ctx, "pin",
		[]editop.Op{{Kind: editop.OpAddPin, Pin: pin}},
		candidate, d.isolates)
}

func (d *Document) doUnpin(ctx context.Context, c Unpin) (Result, error) {
	if c.Index < 0 || c.Index >= len(d.pins) {
		return Result{}, fmt.Errorf("document: unpin: no pin %d", c.Index)
	}
	pin := d.pins[c.Index]
	candidate := append(append([]align.Pin(nil), d.pins[:c.Index]...), d.pins[c.Index+1:]...)
	return d.commitAlignmentChange(ctx, "unpin",
		[]editop.Op{{Kind: editop.OpRemovePin, Pin: pin}},
		candidate, d.isolates)
}

func (d *Document) doIsolate(ctx context.Context, c IsolateRange) (Result, error) {
	if c.Pane < 0 || c.Pane >= len(d.panes) {
		return Result{}, fmt.Errorf("document: isolate: no pane %d", c.Pane)
	}
	n := d.panes[c.Pane].Seq.Len()
	if c.Start < 0 || c.End <= c.Start || c.End > n {
		return Result{}, fmt.Errorf("document: isolate: range [%d,%d) out of bounds for %d lines", c.Start, c.End, n)
	}
	iso := align.Isolate{Pane: c.Pane, Start: c.Start, End: c.End}
	candidate := append(append([]align.Isolate(nil), d.isolates...), iso)
	return d.commitAlignmentChange(ctx, "isolate",
		[]editop.Op{{Kind: editop.OpAddIsolate, Iso: iso}},
		d.pins, candidate)
}

func (d *Document) doRealignAll(ctx context.Context) (Result, error) {
	var ops []editop.Op
	for _, pin := range d.pins {
		ops = append(ops, editop.Op{Kind: editop.OpRemovePin, Pin: pin})
	}
	for _, iso := range d.isolates {
		ops = append(ops, editop.Op{Kind: editop.OpRemoveIsolate, Iso: iso})
	}
	return d.commitAlignmentChange(ctx, "realign all", ops, nil, nil)
}

func (d *Document) doNavigate(c Navigate) (Result, error) {
	var idx int
	var wrapped, ok bool
	switch c.Dir {
	case First:
		idx, ok = diffidx.First(d.blocks)
	case Last:
		idx, ok = diffidx.Last(d.blocks)
	case Next:
		idx, wrapped, ok = diffidx.Next(d.blocks, d.current)
	case Previous:
		idx, wrapped, ok = diffidx.Previous(d.blocks, d.current)
	default:
		return Result{}, fmt.Errorf("document: navigate: unknown direction %d", c.Dir)
	}
	if ok {
		d.current = idx
	}
	return d.result(d.table, wrapped), nil
}

func (d *Document) doCopySelection(ctx context.Context, c CopySelection) (Result, error) {
	if c.Block < 0 || c.Block >= len(d.blocks) {
		return Result{}, fmt.Errorf("document: no block %d", c.Block)
	}
	plan, err := merge.CopySelection(d.table, d.panes, d.blocks[c.Block], c.Src, c.Dst)
	if err != nil {
		return Result{}, err
	}
	prev := d.table
	rec, err := d.applySplices(ctx, plan.Label, plan.Ops, true)
	if err != nil {
		return Result{}, err
	}
	d.history.push(rec)
	return d.result(prev, false), nil
}

func (d *Document) doCopyInto(ctx context.Context, c CopyInto) (Result, error) {
	plan, err := merge.CopyInto(d.table, d.panes, c.Src, c.Dst, c.RowStart, c.RowEnd)
	if err != nil {
		return Result{}, err
	}
	prev := d.table
	rec, err := d.applySplices(ctx, plan.Label, plan.Ops, true)
	if err != nil {
		return Result{}, err
	}
	d.history.push(rec)
	return d.result(prev, false), nil
}

func (d *Document) doMergeSequential(ctx context.Context, c MergeSequential) (Result, error) {
	for _, src := range []int{c.FirstSrc, c.SecondSrc} {
		if src < 0 || src >= len(d.panes) || src == c.Dst {
			return Result{}, fmt.Errorf("document: merge: invalid source pane %d", src)
		}
	}
	if c.Dst < 0 || c.Dst >= len(d.panes) {
		return Result{}, fmt.Errorf("document: merge: invalid destination pane %d", c.Dst)
	}

	prev := d.table
	combined := editop.Transaction{Label: fmt.Sprintf("merge %s then %s", d.panes[c.FirstSrc].Name, d.panes[c.SecondSrc].Name)}

	for _, src := range []int{c.FirstSrc, c.SecondSrc} {
		plan, err := merge.CopyAll(d.table, d.panes, d.blocks, src, c.Dst)
		if err != nil {
			d.unwind(combined)
			return Result{}, err
		}
		rec, err := d.applySplices(ctx, plan.Label, plan.Ops, false)
		if err != nil {
			d.unwind(combined)
			return Result{}, err
		}
		combined.Ops = append(combined.Ops, rec.Ops...)
	}

	d.history.push(combined)
	return d.result(prev, false), nil
}

// unwind reverts partially applied merge passes after a failure; a full recompute restores the table.
func (d *Document) unwind(partial editop.Transaction) {
	if len(partial.Ops) == 0 {
		return
	}
	st := &editop.State{Panes: d.panes, Pins: d.pins, Isolates: d.isolates}
	editop.Apply(st, partial.Invert())
	d.pins = st.Pins
	d.isolates = st.Isolates
	table, err := align.Compute(context.Background(), d.seqs(), d.pins, d.isolates, d.opts)
	if err != nil {
		panic(fmt.Errorf("document: unwind recompute failed: %v", err))
	}
	d.table = table
	d.reclassify()
}

func (d *Document) doUndo(ctx context.Context) (Result, error) {
	tx, ok := d.history.popUndo()
	if !ok {
		return d.result(d.table, false), nil
	}
	prev := d.table
	st := &editop.State{Panes: d.panes, Pins: d.pins, Isolates: d.isolates}
	editop.Apply(st, tx.Invert())
	d.pins = st.Pins
	d.isolates = st.Isolates
	table, err := align.Compute(ctx, d.seqs(), d.pins, d.isolates, d.opts)
	if err != nil {
		// Reapply; the undo never happened.
		editop.Apply(st, tx)
		d.pins = st.Pins
		d.isolates = st.Isolates
		d.history.repush(tx)
		return Result{}, err
	}
	d.table = table
	d.gen++
	d.reclassify()
	d.history.pushRedo(tx)
	return d.result(prev, false), nil
}

func (d *Document) doRedo(ctx context.Context) (Result, error) {
	tx, ok := d.history.popRedo()
	if !ok {
		return d.result(d.table, false), nil
	}
	prev := d.table
	st := &editop.State{Panes: d.panes, Pins: d.pins, Isolates: d.isolates}
	editop.Apply(st, tx)
	d.pins = st.Pins
	d.isolates = st.Isolates
	table, err := align.Compute(ctx, d.seqs(), d.pins, d.isolates, d.opts)
	if err != nil {
		editop.Apply(st, tx.Invert())
		d.pins = st.Pins
		d.isolates = st.Isolates
		d.history.pushRedo(tx)
		return Result{}, err
	}
	d.table = table
	d.gen++
	d.reclassify()
	d.history.repush(tx)
	return d.result(prev, false), nil
}

func (d *Document) doDismiss(ctx context.Context) (Result, error) {
	prev := d.table
	table, err := align.Compute(ctx, d.loadedSeqs(), nil, nil, d.opts)
	if err != nil {
		return Result{}, err
	}
	for _, p := range d.panes {
		p.RevertToLoaded()
	}
	d.pins = nil
	d.isolates = nil
	d.table = table
	d.gen++
	d.reclassify()
	d.history.clear()
	return d.result(prev, false), nil
}

func (d *Document) loadedSeqs() []lineseq.LineSequence {
	out := make([]lineseq.LineSequence, len(d.panes))
	for i, p := range d.panes {
		out[i] = p.Loaded()
	}
	return out
}

func (d *Document) doSetOptions(ctx context.Context, c SetOptions) (Result, error) {
	if c.RefPane < 0 || c.RefPane >= len(d.panes) {
		return Result{}, fmt.Errorf("document: no pane %d", c.RefPane)
	}
	table, err := align.Compute(ctx, d.seqs(), d.pins, d.isolates, c.Opts)
	if err != nil {
		return Result{}, err
	}
	prev := d.table
	d.opts = c.Opts
	d.refPane = c.RefPane
	d.table = table
	d.gen++
	d.reclassify()
	return d.result(prev, false), nil
}

//
// Pin/isolate bookkeeping
//

func insertPinSorted(pins []align.Pin, pin align.Pin) []align.Pin {
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

// adjustOps records the pin/isolate changes implied by a splice as invertible ops.
func adjustOps(oldPins, newPins []align.Pin, oldIsos, newIsos []align.Isolate) []editop.Op {
	var ops []editop.Op
	for _, p := range oldPins {
		if !containsPin(newPins, p) {
			ops = append(ops, editop.Op{Kind: editop.OpRemovePin, Pin: p})
		}
	}
	for _, p := range newPins {
		if !containsPin(oldPins, p) {
			ops = append(ops, editop.Op{Kind: editop.OpAddPin, Pin: p})
		}
	}
	for _, is := range oldIsos {
		if !containsIso(newIsos, is) {
			ops = append(ops, editop.Op{Kind: editop.OpRemoveIsolate, Iso: is})
		}
	}
	for _, is := range newIsos {
		if !containsIso(oldIsos, is) {
			ops = append(ops, editop.Op{Kind: editop.OpAddIsolate, Iso: is})
		}
	}
	return ops
}

func containsPin(pins []align.Pin, pin align.Pin) bool {
	for _, p := range pins {
		if len(p.Row) != len(pin.Row) {
			continue
		}
		same := true
		for i := range p.Row {
			if p.Row[i] != pin.Row[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func containsIso(isolates []align.Isolate, iso align.Isolate) bool {
	for _, is := range isolates {
		if is == iso {
			return true
		}
	}
	return false
}
