package store

import "regexp"

// ErrorClass buckets raw store failures. Only this package inspects error
// text; everything above it sees the classification.
type ErrorClass int

const (
	ClassOpaque ErrorClass = iota
	ClassMissingColumn
	ClassMissingTable
)

// Column error shapes seen across backends: Postgres write path, Postgres
// read path, PostgREST-style schema cache misses, MySQL.
var missingColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`column "([A-Za-z0-9_]+)" of relation "[^"]+" does not exist`),
	regexp.MustCompile(`column "([A-Za-z0-9_]+)" does not exist`),
	regexp.MustCompile(`[Cc]ould not find the '([^']+)' column`),
	regexp.MustCompile(`Unknown column '([^']+)'`),
}

var missingTablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`relation "[^"]+" does not exist`),
	regexp.MustCompile(`[Cc]ould not find the table`),
	regexp.MustCompile(`Table '[^']+' doesn't exist`),
}

// Classify parses a raw store error. For ClassMissingColumn the offending
// column name is returned as detail.
func Classify(err error) (ErrorClass, string) {
	if err == nil {
		return ClassOpaque, ""
	}
	msg := err.Error()
	for _, re := range missingColumnPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return ClassMissingColumn, m[1]
		}
	}
	for _, re := range missingTablePatterns {
		if re.MatchString(msg) {
			return ClassMissingTable, ""
		}
	}
	return ClassOpaque, ""
}
