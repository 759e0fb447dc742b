package matcher

import (
	"fmt"

	"github.com/reugn/go-recur/recur"
)

// Source implements the recur.Matcher interface with the type argument
// recur.Occurrence, matching occurrences that passed through a source.
type Source struct {
	Source recur.Source
}

var _ recur.Matcher[recur.Occurrence] = (*Source)(nil)

// FromSource returns a new Source matcher.
func FromSource(src recur.Source) recur.Matcher[recur.Occurrence] {
	return &Source{Source: src}
}

// IsMatch evaluates Source matcher on the given occurrence.
func (s *Source) IsMatch(o recur.Occurrence) bool {
	return o.Provenance.Contains(s.Source)
}

// Origin implements the recur.Matcher interface with the type argument
// recur.Occurrence, matching occurrences by the string form of the source
// that produced them, e.g. "FREQ=DAILY;COUNT=3" for a rule.
type Origin struct {
	Operator *StringOperator // uses a pointer to compare with standard operators
	Pattern  string
}

var _ recur.Matcher[recur.Occurrence] = (*Origin)(nil)

// NewOrigin returns a new Origin matcher given the string operator and pattern.
func NewOrigin(operator *StringOperator, pattern string) recur.Matcher[recur.Occurrence] {
	return &Origin{
		Operator: operator,
		Pattern:  pattern,
	}
}

// OriginEquals returns a new Origin, matching occurrences whose origin is
// identical to the given string pattern.
func OriginEquals(pattern string) recur.Matcher[recur.Occurrence] {
	return NewOrigin(&StringEquals, pattern)
}

// OriginStartsWith returns a new Origin, matching occurrences whose origin
// starts with the given string pattern.
func OriginStartsWith(pattern string) recur.Matcher[recur.Occurrence] {
	return NewOrigin(&StringStartsWith, pattern)
}

// OriginEndsWith returns a new Origin, matching occurrences whose origin
// ends with the given string pattern.
func OriginEndsWith(pattern string) recur.Matcher[recur.Occurrence] {
	return NewOrigin(&StringEndsWith, pattern)
}

// OriginContains returns a new Origin, matching occurrences whose origin
// contains the given string pattern.
func OriginContains(pattern string) recur.Matcher[recur.Occurrence] {
	return NewOrigin(&StringContains, pattern)
}

// IsMatch evaluates Origin matcher on the given occurrence.
func (m *Origin) IsMatch(o recur.Occurrence) bool {
	origin := o.Provenance.Origin()
	if origin == nil {
		return false
	}
	return (*m.Operator)(fmt.Sprint(origin), m.Pattern)
}
