package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/reugn/go-recur/logger"
	"github.com/reugn/go-recur/recur"
)

type listOptions struct {
	file    string
	from    string
	to      string
	take    int
	reverse bool
}

func newListCommand() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the occurrences of a schedule",
		Long: `Prints the occurrences of the schedule defined in a YAML file, one per
line. Occurrences with a duration are printed as start/duration.

Example:
  recur list -f standup.yaml --from 2024-01-01T00:00:00 --take 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "schedule YAML file")
	cmd.Flags().StringVar(&opts.from, "from", "", "earliest occurrence start")
	cmd.Flags().StringVar(&opts.to, "to", "", "latest occurrence start")
	cmd.Flags().IntVar(&opts.take, "take", 0, "maximum number of occurrences, 0 for no limit")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "list the latest occurrences first")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	schedule, loc, err := loadSchedule(opts.file)
	if err != nil {
		return err
	}
	args := recur.RunArgs{Take: opts.take, Reverse: opts.reverse}
	if args.Start, err = optionalTime(opts.from, loc); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if args.End, err = optionalTime(opts.to, loc); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	if schedule.IsInfinite() && args.Take == 0 && args.End.IsAbsent() {
		return errors.New("the schedule is infinite, set --to or --take")
	}
	logger.Debug("Listing occurrences", "schedule", schedule, "args", fmt.Sprintf("%+v", args))

	var count int
	for o, err := range recur.All(schedule, args) {
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), o)
		count++
	}
	logger.Debug("Listed occurrences", "count", count)
	return nil
}

func optionalTime(value string, loc *time.Location) (mo.Option[time.Time], error) {
	if value == "" {
		return mo.None[time.Time](), nil
	}
	t, err := parseTime(value, loc)
	if err != nil {
		return mo.None[time.Time](), err
	}
	return mo.Some(t), nil
}
