package editop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/lineseq"
)

func lines(contents ...string) []lineseq.Line {
	out := make([]lineseq.Line, len(contents))
	for i, c := range contents {
		out[i] = lineseq.Line{Content: c, Modified: true}
	}
	return out
}

func TestSplice_ApplyThenInvertRestores(t *testing.T) {
	p := lineseq.NewPane("a", lineseq.FromLines([]string{"1", "2", "3"}))
	st := &State{Panes: []*lineseq.Pane{p}}

	tx := Transaction{Ops: []Op{{
		Kind:    OpSplice,
		Pane:    0,
		Start:   1,
		Removed: append([]lineseq.Line(nil), p.Seq.Lines[1:2]...),
		Inserted: lines("X", "Y"),
	}}}
	Apply(st, tx)
	require.Equal(t, []string{"1", "X", "Y", "3"}, p.Seq.Contents())

	Apply(st, tx.Invert())
	require.Equal(t, []string{"1", "2", "3"}, p.Seq.Contents())
}

func TestTransaction_InvertReversesOrder(t *testing.T) {
	p := lineseq.NewPane("a", lineseq.FromLines([]string{"1", "2"}))
	st := &State{Panes: []*lineseq.Pane{p}}

	// Two overlapping splices; undo only works if inverses run in reverse.
	tx := Transaction{Ops: []Op{
		{Kind: OpSplice, Pane: 0, Start: 0, Removed: append([]lineseq.Line(nil), p.Seq.Lines[0:1]...), Inserted: lines("A", "B")},
		{Kind: OpSplice, Pane: 0, Start: 2, Removed: nil, Inserted: lines("C")},
	}}
	Apply(st, tx)
	require.Equal(t, []string{"A", "B", "C", "2"}, p.Seq.Contents())

	Apply(st, tx.Invert())
	require.Equal(t, []string{"1", "2"}, p.Seq.Contents())
}

func TestPinOps(t *testing.T) {
	st := &State{}
	pinA := align.Pin{Row: []int{1, 1}}
	pinB := align.Pin{Row: []int{5, 4}}

	Apply(st, Transaction{Ops: []Op{{Kind: OpAddPin, Pin: pinB}}})
	Apply(st, Transaction{Ops: []Op{{Kind: OpAddPin, Pin: pinA}}})
	require.Equal(t, []align.Pin{pinA, pinB}, st.Pins, "pins stay ordered by first pane index")

	Apply(st, Transaction{Ops: []Op{{Kind: OpRemovePin, Pin: pinA}}})
	require.Equal(t, []align.Pin{pinB}, st.Pins)
}

func TestIsolateOps(t *testing.T) {
	st := &State{}
	iso := align.Isolate{Pane: 1, Start: 2, End: 4}

	add := Transaction{Ops: []Op{{Kind: OpAddIsolate, Iso: iso}}}
	Apply(st, add)
	require.Equal(t, []align.Isolate{iso}, st.Isolates)

	Apply(st, add.Invert())
	require.Empty(t, st.Isolates)
}
