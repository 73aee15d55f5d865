package blocktag

import (
	"fmt"
	"regexp"
	"strings"
)

// Bigram is a pair of adjacent tokens.
type Bigram struct {
	First  string
	Second string
}

// String renders the bigram as ('first', 'second').
func (b Bigram) String() string {
	return fmt.Sprintf("(%s, %s)", quoteToken(b.First), quoteToken(b.Second))
}

var bigramRe = regexp.MustCompile(`^\(\s*'((?:[^'\\]|\\.)*)'\s*,\s*'((?:[^'\\]|\\.)*)'\s*\)$`)

// ParseBigram parses the form produced by Bigram.String.
func ParseBigram(s string) (Bigram, error) {
	m := bigramRe.FindStringSubmatch(strings.TrimSpace(s))
	if len(m) != 3 {
		return Bigram{}, fmt.Errorf("parse bigram %q: want ('a', 'b')", s)
	}
	return Bigram{First: unquoteToken(m[1]), Second: unquoteToken(m[2])}, nil
}

func quoteToken(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func unquoteToken(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		if esc {
			b.WriteRune(r)
			esc = false
			continue
		}
		if r == '\\' {
			esc = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
