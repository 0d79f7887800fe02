package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	APIURL     string
	SessionDir string
	Output     string
	Timeout    time.Duration
	Verbose    bool

	stdin  io.Reader
	stdout io.Writer
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zenops",
		Short:         "Zen Ops valuation console from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := parseOutput(opts.Output)
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.APIURL, "api-url", "", "backend base URL (defaults to API_BASE_URL)")
	flags.StringVar(&opts.SessionDir, "session-dir", "", "directory holding the CLI session (defaults to SESSION_DIR)")
	flags.StringVarP(&opts.Output, "output", "o", string(outputTable), "output format: table, json or yaml")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "backend request timeout (defaults to API_TIMEOUT)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log backend calls to stderr")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newAssignmentsCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	return cmd
}

// Execute runs the CLI against the process stdio.
func Execute() {
	opts := &rootOptions{stdin: os.Stdin, stdout: os.Stdout}
	if err := newRootCmd(opts).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
