package matcher

import "strings"

// StringOperator compares the string form of an occurrence property, such
// as its origin source, with a pattern.
type StringOperator func(value, pattern string) bool

// Standard string operators. Origin matchers compare operators by address,
// so custom operators need their own variables.
var (
	StringEquals     StringOperator = equals
	StringStartsWith StringOperator = strings.HasPrefix
	StringEndsWith   StringOperator = strings.HasSuffix
	StringContains   StringOperator = strings.Contains
)

func equals(value, pattern string) bool {
	return value == pattern
}
