/*
Package recur computes recurring occurrences from RFC 5545 recurrence rules
and composes occurrence streams with set and duration operators.

A Source is a lazy, resumable and directionally ordered sequence of
occurrences. The source kinds are:

  - Rule: the occurrences of a recurrence rule (frequency, interval,
    BYxxx constraints, count or end bound).
  - Dates: an explicit list of date-times.
  - Composite: the result of an operator (Union, Difference, Intersect,
    Dedup, MergeDurations, SplitDurations) applied to other sources.
  - Schedule: rules and dates minus exception dates and rules.

Sources are immutable. Every call to Occurrences starts an independent
iteration session, so a source can be iterated by any number of goroutines at
once; an Iterator itself is not safe for concurrent use.

	rule, err := recur.NewRule(recur.RuleOptions{
		Frequency:    recur.Monthly,
		Start:        time.Date(2024, 1, 31, 9, 0, 0, 0, loc),
		ByDayOfMonth: []int{-1},
		Count:        mo.Some(12),
	})
	if err != nil {
		return err
	}
	it, err := rule.Occurrences(recur.RunArgs{Reverse: true})
	...
	for {
		occurrence, err := it.Next()
		if errors.Is(err, recur.ErrDone) {
			break
		}
		...
	}

Iterators visit occurrences in ascending order of their start time, or in
descending order when RunArgs.Reverse is set. A reverse run visits exactly the
occurrences of the forward run with the same bounds. SkipTo resumes an
iterator at a later position; a target that is not strictly past the last
returned occurrence is rejected with ErrInvalidSkip.

Wall clock readings that do not exist in the rule location, such as 02:30 on
the day daylight saving time starts, are reported as ErrUnrepresentableTime
instead of being shifted. Readings that exist twice when clocks fall back
resolve to the first instant.
*/
package recur
