// Package cli is the linealign command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/linealign/linealign/internal/logging"
)

// Version is the linealign version. It is a var (not a const) so build tooling can override it via -ldflags.
var Version = "0.1.0"

// RunOptions override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	Out io.Writer
	Err io.Writer
}

type rootCommand struct {
	Verbose bool   `help:"Enable debug logging."`
	Config  string `help:"Config file path (default: $LINEALIGN_CONFIG or ~/.linealign/config.toml)." type:"path"`

	Compare   compareCmd   `cmd:"" help:"Align files side by side and report their differences."`
	Revisions revisionsCmd `cmd:"" help:"List git revisions of a file."`
	Version   versionCmd   `cmd:"" help:"Print version information."`
}

// cmdEnv is passed to each command's Run.
type cmdEnv struct {
	out        io.Writer
	configPath string
}

// Run runs the CLI with args (typically os.Args). It returns the exit code:
//   - 0: success, no differences
//   - 1: the compared files differ
//   - 2: any error (bad flags, unreadable files, git failures); a message has been written to Err
func Run(args []string, opts *RunOptions) int {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	var root rootCommand
	exited := false
	parser, err := kong.New(&root,
		kong.Name("linealign"),
		kong.Description("N-way line alignment, diff and merge for text files."),
		kong.Writers(out, errW),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		fmt.Fprintln(errW, "linealign:", err)
		return 2
	}

	ctx, err := parser.Parse(argv)
	if exited {
		// --help or similar; kong already printed.
		return 0
	}
	if err != nil {
		fmt.Fprintln(errW, "linealign:", err)
		return 2
	}

	if root.Verbose {
		logger, lerr := zap.NewDevelopment()
		if lerr == nil {
			logging.SetLogger(logger)
			defer logger.Sync()
		}
	}

	if err := ctx.Run(&cmdEnv{out: out, configPath: root.Config}); err != nil {
		if errors.Is(err, errDifferences) {
			return 1
		}
		fmt.Fprintln(errW, "linealign:", err)
		return 2
	}
	return 0
}

type versionCmd struct{}

func (versionCmd) Run(env *cmdEnv) error {
	fmt.Fprintln(env.out, "linealign", Version)
	return nil
}
