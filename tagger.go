package blocktag

import (
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

func NewTagger(opts ...func(*Tagger)) *Tagger {
	t := &Tagger{lex: DefaultLexicon(), logger: zap.NewNop()}
	for _, o := range opts {
		o(t)
	}
	return t
}

func WithLexicon(l *Lexicon) func(*Tagger) {
	return func(t *Tagger) {
		if l != nil {
			t.lex = l
		}
	}
}

func WithLogger(l *zap.Logger) func(*Tagger) {
	return func(t *Tagger) {
		if l != nil {
			t.logger = l
		}
	}
}

// Tagger assigns goal and area blocks to instructions from lexical cues.
type Tagger struct {
	lex    *Lexicon
	logger *zap.Logger
}

// ===== Sink =====

// TagEvent is emitted by TagStream for every line read.
type TagEvent struct {
	Line        int
	Instruction string
	Tag         Tag
}

type Sink interface {
	OnTag(ev TagEvent)
}

type SinkFunc func(ev TagEvent)

func (f SinkFunc) OnTag(ev TagEvent) { f(ev) }

// ===== Tagging =====

var (
	// Substrings, not words: "blocks" leaves a stray "s" behind.
	nounRe      = regexp.MustCompile(`block|box`)
	candidateRe = regexp.MustCompile(`\d+`)
	numericRe   = regexp.MustCompile(`^\d+$`)
)

// Tag tags a single raw instruction.
func (t *Tagger) Tag(raw string) Tag {
	tag := NewTag()

	clean := nounRe.ReplaceAllString(raw, "")
	tokens := strings.Fields(clean)
	candidates := candidateRe.FindAllString(clean, -1)

	for i, tok := range tokens {
		if !numericRe.MatchString(tok) {
			continue
		}
		// the first token's predecessor is the last one
		prev := tokens[(i-1+len(tokens))%len(tokens)]
		switch t.lex.Lookup(prev) {
		case RoleGoal:
			tag.Goal = tok
		case RoleArea:
			tag.Area = tok
		}
	}

	if len(candidates) > 0 && tag.Goal == Unset {
		tag.Goal = candidates[0]
	}
	if len(candidates) >= 2 && tag.Area == Unset {
		tag.Area = candidates[1]
	}
	return tag
}

// TagAll tags every instruction. Identical instructions share one entry.
func (t *Tagger) TagAll(raw []string) (*Tags, error) {
	if len(raw) == 0 {
		t.logger.Error("tagging requested without instructions")
		return nil, ErrNoInstructions
	}
	tags := NewTags()
	for _, r := range raw {
		tags.Set(r, t.Tag(r))
	}
	t.logger.Debug("instructions tagged",
		zap.Int("instructions", len(raw)),
		zap.Int("distinct", tags.Len()))
	return tags, nil
}

// TagStream reads instructions line by line from r and emits a TagEvent per
// line. It returns ErrNoInstructions when r holds no lines.
func (t *Tagger) TagStream(r io.Reader, sink Sink) error {
	seen := 0
	err := eachTextLine(r, func(n int, line string) error {
		seen++
		sink.OnTag(TagEvent{Line: n, Instruction: line, Tag: t.Tag(line)})
		return nil
	})
	if err != nil {
		return err
	}
	if seen == 0 {
		return ErrNoInstructions
	}
	return nil
}
