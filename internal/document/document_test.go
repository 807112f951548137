package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/diffidx"
	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/lineseq"
)

func newDoc(t *testing.T, opts eqpolicy.Options, contents ...[]string) *Document {
	t.Helper()
	panes := make([]*lineseq.Pane, len(contents))
	for i, c := range contents {
		panes[i] = lineseq.NewPane(string(rune('a'+i)), lineseq.FromLines(c))
	}
	d, err := New(context.Background(), panes, opts)
	require.NoError(t, err)
	return d
}

func contents(d *Document, pane int) []string {
	return d.Panes()[pane].Seq.Contents()
}

func TestNew_IdenticalPanes(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b"}, []string{"a", "b"})
	require.Empty(t, d.Blocks())
	require.Equal(t, Clean, d.State())
	require.False(t, d.CanUndo())
}

func TestNew_NoPanes(t *testing.T) {
	_, err := New(context.Background(), nil, eqpolicy.Options{})
	require.Error(t, err)
}

func TestDo_EditInsert(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b", "c"}, []string{"a", "b", "c"})

	res, err := d.Do(context.Background(), Edit{Pane: 1, Start: 1, End: 1, NewContent: []string{"x"}})
	require.NoError(t, err)

	require.Equal(t, []string{"a", "x", "b", "c"}, contents(d, 1))
	require.Equal(t, Dirty, res.State)
	require.True(t, d.CanUndo())
	require.Equal(t, []diffidx.Block{{Start: 1, End: 2, Kind: diffidx.Inserted}}, res.Blocks)
	require.Equal(t, 1, res.AffectedStart)
	require.Equal(t, 4, res.AffectedEnd)
	require.True(t, d.Panes()[1].Seq.Lines[1].Modified)
}

func TestDo_EditOutOfBounds(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})

	tests := []struct {
		name string
		cmd  Edit
	}{
		{"bad pane", Edit{Pane: 2, Start: 0, End: 0}},
		{"negative start", Edit{Pane: 0, Start: -1, End: 0}},
		{"end before start", Edit{Pane: 0, Start: 1, End: 0}},
		{"end past length", Edit{Pane: 0, Start: 0, End: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Do(context.Background(), tc.cmd)
			require.Error(t, err)
			require.Equal(t, []string{"a"}, contents(d, 0))
			require.False(t, d.CanUndo())
		})
	}
}

func TestDo_UndoRedo(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b", "c"}, []string{"a", "b", "c"})
	origTable := d.Table()

	_, err := d.Do(context.Background(), Edit{Pane: 0, Start: 1, End: 2, NewContent: []string{"B", "B2"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "B", "B2", "c"}, contents(d, 0))
	editedTable := d.Table()

	res, err := d.Do(context.Background(), Undo{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, contents(d, 0))
	require.Equal(t, origTable, d.Table())
	require.Empty(t, res.Blocks)
	require.False(t, d.CanUndo())
	require.True(t, d.CanRedo())

	_, err = d.Do(context.Background(), Redo{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "B", "B2", "c"}, contents(d, 0))
	require.Equal(t, editedTable, d.Table())
	require.True(t, d.CanUndo())
	require.False(t, d.CanRedo())
}

func TestDo_UndoEmptyStackIsNoop(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})
	res, err := d.Do(context.Background(), Undo{})
	require.NoError(t, err)
	require.Equal(t, Clean, res.State)
}

func TestDo_CopySelection(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"1", "x", "2"}, []string{"1", "y", "2"})
	require.Len(t, d.Blocks(), 1)

	res, err := d.Do(context.Background(), CopySelection{Block: 0, Src: 0, Dst: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "x", "2"}, contents(d, 1))
	require.Empty(t, res.Blocks)
	require.Equal(t, Dirty, res.State)

	_, err = d.Do(context.Background(), Undo{})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "y", "2"}, contents(d, 1))
	require.Len(t, d.Blocks(), 1)
}

func TestDo_CopySelectionBadBlock(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})
	_, err := d.Do(context.Background(), CopySelection{Block: 0, Src: 0, Dst: 1})
	require.Error(t, err)
}

func TestDo_MergeSequential(t *testing.T) {
	// Both branches insert a different line at the same spot; the later pass wins.
	d := newDoc(t, eqpolicy.Options{},
		[]string{"1", "2"},
		[]string{"1", "X", "2"},
		[]string{"1", "Y", "2"})

	_, err := d.Do(context.Background(), MergeSequential{FirstSrc: 1, SecondSrc: 2, Dst: 0})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "Y", "2"}, contents(d, 0))

	// The whole merge is one transaction.
	_, err = d.Do(context.Background(), Undo{})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, contents(d, 0))
	require.False(t, d.CanUndo())
}

func TestDo_MergeSequentialBadPanes(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"}, []string{"a"})

	tests := []struct {
		name string
		cmd  MergeSequential
	}{
		{"source is destination", MergeSequential{FirstSrc: 0, SecondSrc: 2, Dst: 0}},
		{"missing source", MergeSequential{FirstSrc: 3, SecondSrc: 2, Dst: 0}},
		{"missing destination", MergeSequential{FirstSrc: 1, SecondSrc: 2, Dst: 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Do(context.Background(), tc.cmd)
			require.Error(t, err)
		})
	}
}

func TestDo_PinThenUnpin(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b", "c"}, []string{"a", "b", "c"})
	origTable := d.Table()

	_, err := d.Do(context.Background(), PinRows{Row: []int{0, 2}})
	require.NoError(t, err)
	require.Len(t, d.Pins(), 1)
	at := d.Table().RowForPaneLine(0, 0)
	require.NotEqual(t, -1, at)
	require.Equal(t, align.Row{0, 2}, d.Table().Rows[at])

	_, err = d.Do(context.Background(), Unpin{Index: 0})
	require.NoError(t, err)
	require.Empty(t, d.Pins())
	require.Equal(t, origTable, d.Table())
}

func TestDo_PinConflictLeavesDocumentUntouched(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b", "c"}, []string{"a", "b", "c"})

	_, err := d.Do(context.Background(), PinRows{Row: []int{0, 2}})
	require.NoError(t, err)
	pinned := d.Table()

	// Crosses the existing pin: pane 1 would have to go backwards.
	_, err = d.Do(context.Background(), PinRows{Row: []int{1, 1}})
	var poe *align.PinOrderError
	require.ErrorAs(t, err, &poe)
	require.Len(t, d.Pins(), 1)
	require.Equal(t, pinned, d.Table())
}

func TestDo_PinWrongArity(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})
	_, err := d.Do(context.Background(), PinRows{Row: []int{0}})
	require.Error(t, err)
}

func TestDo_Isolate(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b"}, []string{"a", "b"})

	_, err := d.Do(context.Background(), IsolateRange{Pane: 1, Start: 0, End: 2})
	require.NoError(t, err)
	for _, row := range d.Table().Rows {
		nonGap := 0
		for _, idx := range row {
			if idx != align.Gap {
				nonGap++
			}
		}
		require.Equal(t, 1, nonGap)
	}

	_, err = d.Do(context.Background(), RealignAll{})
	require.NoError(t, err)
	require.Empty(t, d.Blocks())
	require.Len(t, d.Table().Rows, 2)
}

func TestDo_Navigate(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{},
		[]string{"1", "2", "3", "4", "5"},
		[]string{"1", "X", "3", "Y", "5"})
	require.Len(t, d.Blocks(), 2)

	res, err := d.Do(context.Background(), Navigate{Dir: Next})
	require.NoError(t, err)
	require.Equal(t, 0, res.Current)
	require.False(t, res.Wrapped)

	res, err = d.Do(context.Background(), Navigate{Dir: Next})
	require.NoError(t, err)
	require.Equal(t, 1, res.Current)

	res, err = d.Do(context.Background(), Navigate{Dir: Next})
	require.NoError(t, err)
	require.Equal(t, 0, res.Current)
	require.True(t, res.Wrapped)

	res, err = d.Do(context.Background(), Navigate{Dir: Previous})
	require.NoError(t, err)
	require.Equal(t, 1, res.Current)
	require.True(t, res.Wrapped)

	res, err = d.Do(context.Background(), Navigate{Dir: Last})
	require.NoError(t, err)
	require.Equal(t, 1, res.Current)

	res, err = d.Do(context.Background(), Navigate{Dir: First})
	require.NoError(t, err)
	require.Equal(t, 0, res.Current)
}

func TestDo_NavigateNoBlocks(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})
	res, err := d.Do(context.Background(), Navigate{Dir: Next})
	require.NoError(t, err)
	require.Equal(t, -1, res.Current)
	require.False(t, res.Wrapped)
}

func TestDo_DismissAllEdits(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b"}, []string{"a", "b"})

	_, err := d.Do(context.Background(), Edit{Pane: 0, Start: 0, End: 1, NewContent: []string{"z"}})
	require.NoError(t, err)
	_, err = d.Do(context.Background(), PinRows{Row: []int{1, 1}})
	require.NoError(t, err)

	res, err := d.Do(context.Background(), DismissAllEdits{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, contents(d, 0))
	require.Empty(t, d.Pins())
	require.Equal(t, Clean, res.State)
	require.False(t, d.CanUndo())
	require.False(t, d.CanRedo())
}

func TestDo_SetOptions(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"Foo"}, []string{"foo"})
	require.Len(t, d.Blocks(), 1)

	res, err := d.Do(context.Background(), SetOptions{Opts: eqpolicy.Options{IgnoreCase: true}, RefPane: 0})
	require.NoError(t, err)
	require.Empty(t, res.Blocks)

	res, err = d.Do(context.Background(), SetOptions{Opts: eqpolicy.Options{}, RefPane: 0})
	require.NoError(t, err)
	require.Len(t, res.Blocks, 1)
}

func TestDo_SetOptionsBadRefPane(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})
	_, err := d.Do(context.Background(), SetOptions{RefPane: 7})
	require.Error(t, err)
}

func TestMarkSaved(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a"}, []string{"a"})
	_, err := d.Do(context.Background(), Edit{Pane: 0, Start: 0, End: 1, NewContent: []string{"b"}})
	require.NoError(t, err)
	require.Equal(t, Dirty, d.State())

	d.MarkSaved(0)
	require.Equal(t, Clean, d.State())
}

func TestRealign_DiscardsStaleResult(t *testing.T) {
	d := newDoc(t, eqpolicy.Options{}, []string{"a", "b"}, []string{"a", "b"})

	// A canceled context fails the compute and leaves the table alone.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Realign(ctx)
	require.Error(t, err)
	require.Len(t, d.Table().Rows, 2)

	require.NoError(t, d.Realign(context.Background()))
	require.Len(t, d.Table().Rows, 2)
}
