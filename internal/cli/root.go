// Package cli implements the asnlabels command-line interface.
//
// The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Render a run of labels to PDF or PNG
//   - labels: List the supported label sheets, optionally pick one interactively
//   - serve: Start the HTTP preview server
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/asnlabels/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background(), os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute builds the command tree, wires the --verbose flag and runs the
// command selected by os.Args.
func Execute(ctx context.Context, logOutput io.Writer) error {
	root, _ := newRoot(logOutput)
	return root.ExecuteContext(ctx)
}

// newRoot returns the root command with the persistent --verbose flag and
// the CLI state behind it.
func newRoot(logOutput io.Writer) (*cobra.Command, *CLI) {
	var verbose bool

	c := New(logOutput, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}
	return root, c
}
