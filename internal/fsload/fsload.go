// Package fsload implements the filesystem collaborators: loading files into line sequences (with encoding detection), saving pane content back, and watching
// loaded paths for external modification.
package fsload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/linealign/linealign/internal/collab"
	"github.com/linealign/linealign/internal/lineseq"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// Identity fingerprints a file's on-disk state. Two loads of an unmodified file produce the same Identity.
type Identity struct {
	ModTime time.Time
	Size    int64
}

// Same implements collab.Identity.
func (id Identity) Same(other collab.Identity) bool {
	o, ok := other.(Identity)
	return ok && id.ModTime.Equal(o.ModTime) && id.Size == o.Size
}

// Loader loads files from the local filesystem. The zero value is ready to use.
type Loader struct{}

// Load reads source, decodes UTF-8 (with or without BOM) or BOM-marked UTF-16, and returns the line content plus the file's identity at read time.
func (Loader) Load(source string) (lineseq.LineSequence, collab.Identity, error) {
	st, err := os.Stat(source)
	if err != nil {
		return lineseq.LineSequence{}, nil, &collab.LoadError{Path: source, Err: err}
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return lineseq.LineSequence{}, nil, &collab.LoadError{Path: source, Err: err}
	}
	text, err := decode(data)
	if err != nil {
		return lineseq.LineSequence{}, nil, &collab.LoadError{Path: source, Err: err}
	}
	return lineseq.FromString(text), Identity{ModTime: st.ModTime(), Size: st.Size()}, nil
}

// decode sniffs the BOM and converts the raw bytes to a string. No BOM means UTF-8.
func decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return string(data[len(utf8BOM):]), nil
	case bytes.HasPrefix(data, utf16LEBOM), bytes.HasPrefix(data, utf16BEBOM):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), nil
	default:
		return string(data), nil
	}
}

// ErrStale is reported (wrapped in a collab.SaveError) when the file changed on disk after it was loaded.
var ErrStale = errors.New("file changed on disk since load")

// Saver writes one pane back to its source path. It refuses to clobber a file whose identity no longer matches the one recorded at load.
type Saver struct {
	Path   string
	Loaded Identity
}

// Save writes pane's current content to Path using the pane's original EOL style, then updates the recorded identity and marks the pane saved.
func (s *Saver) Save(pane *lineseq.Pane) error {
	st, err := os.Stat(s.Path)
	switch {
	case err == nil:
		if !(Identity{ModTime: st.ModTime(), Size: st.Size()}).Same(s.Loaded) {
			return &collab.SaveError{Path: s.Path, Err: ErrStale}
		}
	case os.IsNotExist(err):
		// Deleted out from under us; saving recreates it.
	default:
		return &collab.SaveError{Path: s.Path, Err: err}
	}

	if err := os.WriteFile(s.Path, []byte(pane.Seq.String()), 0o644); err != nil {
		return &collab.SaveError{Path: s.Path, Err: err}
	}
	st, err = os.Stat(s.Path)
	if err != nil {
		return &collab.SaveError{Path: s.Path, Err: err}
	}
	s.Loaded = Identity{ModTime: st.ModTime(), Size: st.Size()}
	pane.MarkSaved()
	return nil
}
