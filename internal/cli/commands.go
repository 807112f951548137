package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/linealign/linealign/internal/collab"
	"github.com/linealign/linealign/internal/config"
	"github.com/linealign/linealign/internal/document"
	"github.com/linealign/linealign/internal/eqpolicy"
	"github.com/linealign/linealign/internal/fsload"
	"github.com/linealign/linealign/internal/gridview"
	"github.com/linealign/linealign/internal/lineseq"
	"github.com/linealign/linealign/internal/vcsgit"
)

// errDifferences signals exit code 1: the comparison succeeded and found differences.
var errDifferences = errors.New("files differ")

type compareCmd struct {
	Paths []string `arg:"" name:"path" help:"Files to compare (two or more)." type:"path"`

	IgnoreCase        bool `help:"Treat lines differing only in case as equal."`
	IgnoreAllSpace    bool `help:"Ignore all whitespace when comparing lines."`
	IgnoreSpaceChange bool `help:"Ignore changes in the amount of whitespace."`
	IgnoreEOL         bool `help:"Ignore line-ending style differences."`
	IgnoreBlankLines  bool `help:"Treat rows of blank lines as equal."`

	Ref     int      `default:"0" help:"Reference pane index for classification."`
	Width   int      `help:"Output width in cells (default: terminal width)."`
	Summary bool     `help:"Print block counts instead of the full grid."`
	Rev     []string `help:"Git revision to load for the corresponding path, in order; use '-' for the working tree. Repeatable."`
}

func (c *compareCmd) Run(env *cmdEnv) error {
	if len(c.Paths) < 2 {
		return fmt.Errorf("compare: need at least two paths")
	}
	if c.Ref < 0 || c.Ref >= len(c.Paths) {
		return fmt.Errorf("compare: --ref %d out of range for %d files", c.Ref, len(c.Paths))
	}
	if len(c.Rev) > len(c.Paths) {
		return fmt.Errorf("compare: more --rev flags than paths")
	}

	cfg, err := loadConfig(env)
	if err != nil {
		return err
	}
	opts := c.options(cfg)

	panes := make([]*lineseq.Pane, len(c.Paths))
	names := make([]string, len(c.Paths))
	for i, path := range c.Paths {
		seq, name, err := c.loadPane(path, i)
		if err != nil {
			return err
		}
		panes[i] = lineseq.NewPane(name, seq)
		names[i] = name
	}

	doc, err := document.New(context.Background(), panes, opts)
	if err != nil {
		return err
	}
	if c.Ref != 0 {
		if _, err := doc.Do(context.Background(), document.SetOptions{Opts: opts, RefPane: c.Ref}); err != nil {
			return err
		}
	}

	blocks := doc.Blocks()
	if c.Summary || cfg.Output.Summary {
		fmt.Fprintln(env.out, gridview.Summarize(blocks))
	} else {
		seqs := make([]lineseq.LineSequence, len(panes))
		for i, p := range panes {
			seqs[i] = p.Seq
		}
		view := gridview.Options{Width: c.width(cfg)}
		fmt.Fprint(env.out, gridview.Render(doc.Table(), seqs, names, opts, doc.RefPane(), view))
	}

	if len(blocks) > 0 {
		return errDifferences
	}
	return nil
}

func (c *compareCmd) options(cfg config.Config) eqpolicy.Options {
	opts := cfg.Compare.Options()
	if c.IgnoreCase {
		opts.IgnoreCase = true
	}
	if c.IgnoreAllSpace {
		opts.IgnoreAllSpace = true
	}
	if c.IgnoreSpaceChange {
		opts.IgnoreSpaceChange = true
	}
	if c.IgnoreEOL {
		opts.IgnoreEOL = true
	}
	if c.IgnoreBlankLines {
		opts.IgnoreBlankLines = true
	}
	return opts
}

// loadPane loads path from the working tree, or from git when a --rev was given for this position.
func (c *compareCmd) loadPane(path string, i int) (lineseq.LineSequence, string, error) {
	name := filepath.Base(path)
	if i < len(c.Rev) && c.Rev[i] != "" && c.Rev[i] != "-" {
		seq, err := vcsgit.VCS{}.Fetch(path, collab.Revision{ID: c.Rev[i]})
		if err != nil {
			return lineseq.LineSequence{}, "", err
		}
		return seq, fmt.Sprintf("%s@%s", name, c.Rev[i]), nil
	}
	seq, _, err := fsload.Loader{}.Load(path)
	if err != nil {
		return lineseq.LineSequence{}, "", err
	}
	return seq, name, nil
}

func (c *compareCmd) width(cfg config.Config) int {
	if c.Width > 0 {
		return c.Width
	}
	if cfg.Output.Width > 0 {
		return cfg.Output.Width
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

type revisionsCmd struct {
	Path string `arg:"" help:"File whose git history to list." type:"path"`
	Max  int    `default:"20" help:"Maximum number of revisions to list (0 for all)."`
}

func (c *revisionsCmd) Run(env *cmdEnv) error {
	revs, err := vcsgit.VCS{MaxRevisions: c.Max}.ListRevisions(c.Path)
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		fmt.Fprintln(env.out, "no revisions")
		return nil
	}
	for _, r := range revs {
		id := r.ID
		if len(id) > 12 {
			id = id[:12]
		}
		fmt.Fprintf(env.out, "%s  %s  %-20s %s\n", id, r.Date, r.Author, r.Subject)
	}
	return nil
}

func loadConfig(env *cmdEnv) (config.Config, error) {
	if env.configPath != "" {
		return config.LoadFromPath(env.configPath)
	}
	return config.Load()
}
