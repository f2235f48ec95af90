// Package app wires the command tree to the conversion pipeline and maps
// outcomes to process exit codes.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"clinvartab/internal/cli"
	"clinvartab/internal/config"
	"clinvartab/internal/errors"
	"clinvartab/internal/logger"
	"clinvartab/internal/stream"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitFailure  = 3
	ExitCanceled = 130
)

// RunContext executes argv and returns the process exit code. Records go to
// stdout; logs, errors and the summary go to stderr.
func RunContext(parent context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := &runner{stdin: stdin, stdout: stdout, stderr: stderr}
	root := cli.NewRoot(config.New(), cli.Handlers{Convert: r.convert, Debug: r.debug})
	root.SetArgs(argv)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	logger.Sync()
	return exitCode(err, root, stderr)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdin, stdout, stderr)
}

func exitCode(err error, root *cli.Root, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case stream.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(stderr, "interrupted")
		return ExitCanceled
	}

	label := "error"
	if errors.IsFatalInput(err) {
		label = "error: malformed input"
		if errors.Is(err, errors.ErrTruncated) {
			label = "error: truncated input"
		}
	}
	_, _ = fmt.Fprintf(stderr, "%s: %v\n", label, err)
	if hint := errors.FlattenHints(err); hint != "" {
		for _, line := range strings.Split(hint, "\n") {
			_, _ = fmt.Fprintf(stderr, "hint: %s\n", line)
		}
	}
	if errors.Is(err, errors.ErrUsage) || !root.Ran() {
		_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return ExitUsage
	}
	return ExitFailure
}
