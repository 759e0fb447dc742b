// Command recur lists the occurrences of schedules defined in YAML files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reugn/go-recur/logger"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	sync      func() error
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "recur",
		Short: "Compute recurring occurrences of iCalendar style schedules",
		Long: `recur evaluates schedules made of RFC 5545 recurrence rules, explicit
dates and exceptions, and prints their occurrences in RFC 3339 format.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logger.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			l, sync, err := newLogger(level, opts.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger.SetDefault(l)
			opts.sync = sync
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.sync != nil {
				_ = opts.sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"log level: trace, debug, info, warn, error or off")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text",
		"log format: text, json or zap")

	cmd.AddCommand(newListCommand())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
