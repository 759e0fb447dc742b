package matcher

import "github.com/reugn/go-recur/recur"

// All returns a matcher satisfied when every one of the matchers is.
func All(matchers ...recur.Matcher[recur.Occurrence]) recur.Matcher[recur.Occurrence] {
	return recur.MatchFunc[recur.Occurrence](func(o recur.Occurrence) bool {
		for _, m := range matchers {
			if !m.IsMatch(o) {
				return false
			}
		}
		return true
	})
}

// Any returns a matcher satisfied when at least one of the matchers is.
func Any(matchers ...recur.Matcher[recur.Occurrence]) recur.Matcher[recur.Occurrence] {
	return recur.MatchFunc[recur.Occurrence](func(o recur.Occurrence) bool {
		for _, m := range matchers {
			if m.IsMatch(o) {
				return true
			}
		}
		return false
	})
}

// Not negates the matcher.
func Not(m recur.Matcher[recur.Occurrence]) recur.Matcher[recur.Occurrence] {
	return recur.MatchFunc[recur.Occurrence](func(o recur.Occurrence) bool {
		return !m.IsMatch(o)
	})
}
