package blocktag

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NumberPlaceholder replaces every run of digits in a normalized instruction.
// It is lower-cased along with the rest of the line.
const NumberPlaceholder = "NUM"

var (
	punctRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// Normalize prepares a raw instruction line for frequency counting:
// trailing periods and newlines are stripped, punctuation removed, digit
// runs replaced with NumberPlaceholder and the result lower-cased.
func Normalize(line string) string {
	s := strings.TrimRight(line, ".\n")
	s = punctRe.ReplaceAllString(s, "")
	s = digitsRe.ReplaceAllString(s, NumberPlaceholder)
	// a Caser is stateful, so one per call
	return cases.Lower(language.Und).String(s)
}
