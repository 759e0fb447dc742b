// Package pipe is an internal package focused on solving a single task.
// Given a recurrence rule and a position in time, what is the next instant
// (or the previous one, when walking backwards) that fits the rule?
//
// A rule is evaluated as a chain of stages. The frequency stage produces
// periods (a year, a month, a week, a day, an hour, ...) stepping by the rule
// interval. Every constraint stage (BYMONTH, BYMONTHDAY, BYDAY, BYHOUR,
// BYMINUTE, BYSECOND) receives a frame and either expands it into the ordered
// sub-frames that satisfy the constraint, or filters it. A frame that is
// coarser than the stage unit is expanded; a frame that is as fine or finer
// is filtered. This mirrors the expand/limit table of RFC 5545 section
// 3.3.10.
//
// Expanded frames are kept on an explicit stack owned by the Chain, so the
// chain keeps draining the innermost expansion before it asks the frequency
// stage for the next period. When a filter rejects a frame that came straight
// from the frequency stage, it reports the nearest wall time that could
// satisfy it, and the frequency stage fast-forwards to the period containing
// that time.
//
// Frames are expressed in wall-clock terms. Periods of daily and coarser
// frequencies are civil dates, which makes interval steps immune to UTC offset
// changes. Sub-daily frequencies step in absolute seconds. A frame only
// becomes a time.Time at the end of the chain, where a wall time that does not
// exist in the rule location is reported as ErrUnrepresentableTime instead of
// being shifted.
//
// Every stage is written once and parameterized by a Direction, so a reverse
// traversal visits exactly the instants of the forward one in the opposite
// order.
package pipe
