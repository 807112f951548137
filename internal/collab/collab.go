// Package collab defines the contracts between the comparison engine and its external collaborators: content loading, version control, persistence, and
// highlighting. The engine depends only on these interfaces; the implementations (filesystem, git) live in their own packages and keep process and file I/O out
// of the core.
package collab

import (
	"fmt"

	"github.com/linealign/linealign/internal/align"
	"github.com/linealign/linealign/internal/lineseq"
)

// Identity is an opaque fingerprint of a loaded source, used only for equality: a changed identity means the source was modified externally since load.
type Identity interface {
	// Same reports whether other denotes the same unmodified source state.
	Same(other Identity) bool
}

// Loader turns a source designator (a path, usually) into line content plus its identity at load time.
type Loader interface {
	Load(source string) (lineseq.LineSequence, Identity, error)
}

// Revision is one historical version of a path.
type Revision struct {
	ID      string
	Author  string
	Date    string
	Subject string
}

// VCS lists and fetches historical versions of a path.
type VCS interface {
	ListRevisions(path string) ([]Revision, error)
	Fetch(path string, rev Revision) (lineseq.LineSequence, error)
}

// Persister writes a pane's current content back to its source.
type Persister interface {
	Save(pane *lineseq.Pane) error
}

// Highlighter receives read-only alignment state for display decoration. Implementations must not retain or mutate the arguments.
type Highlighter interface {
	Highlight(table align.Table, seqs []lineseq.LineSequence)
}

// LoadError reports a failed load of Path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed save of Path.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %s: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// FetchError reports a failed revision listing or fetch for Path.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Path, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }
