// Package vcsgit implements the version-control collaborator by shelling out to git. All process I/O stays here; the engine sees only line sequences and
// revision metadata.
package vcsgit

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/linealign/linealign/internal/collab"
	"github.com/linealign/linealign/internal/lineseq"
)

// VCS runs git in the repository containing the compared files. The zero value runs git from each path's own directory.
type VCS struct {
	// MaxRevisions caps ListRevisions output; 0 means no cap.
	MaxRevisions int
}

// ListRevisions returns the revisions touching path, newest first.
func (v VCS) ListRevisions(path string) ([]collab.Revision, error) {
	args := []string{"log", "--format=%H%x09%an%x09%ad%x09%s", "--date=short"}
	if v.MaxRevisions > 0 {
		args = append(args, fmt.Sprintf("-n%d", v.MaxRevisions))
	}
	args = append(args, "--", filepath.Base(path))

	out, err := runGit(filepath.Dir(path), args...)
	if err != nil {
		return nil, &collab.FetchError{Path: path, Err: err}
	}

	var revs []collab.Revision
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		rev, err := parseRevision(line)
		if err != nil {
			return nil, &collab.FetchError{Path: path, Err: err}
		}
		revs = append(revs, rev)
	}
	return revs, nil
}

// Fetch returns path's content at rev.
func (v VCS) Fetch(path string, rev collab.Revision) (lineseq.LineSequence, error) {
	out, err := runGit(filepath.Dir(path), "show", rev.ID+":./"+filepath.Base(path))
	if err != nil {
		return lineseq.LineSequence{}, &collab.FetchError{Path: path, Err: err}
	}
	return lineseq.FromString(out), nil
}

func parseRevision(line string) (collab.Revision, error) {
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) != 4 {
		return collab.Revision{}, fmt.Errorf("malformed log line %q", line)
	}
	return collab.Revision{ID: parts[0], Author: parts[1], Date: parts[2], Subject: parts[3]}, nil
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return out.String(), nil
}
