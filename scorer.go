package blocktag

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Scores holds the evaluation result together with the raw counts it was
// computed from.
type Scores struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`

	Correct  int `json:"correct" yaml:"correct"`   // correctly tagged roles
	Answers  int `json:"answers" yaml:"answers"`   // roles the tagger set
	Expected int `json:"expected" yaml:"expected"` // recall denominator
	Matched  int `json:"matched" yaml:"matched"`   // gold records found in the tags
}

func NewScorer(opts ...func(*Scorer)) *Scorer {
	s := &Scorer{logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func WithDenominator(d Denominator) func(*Scorer) {
	return func(s *Scorer) { s.denominator = d }
}

func WithDivisionPolicy(p DivisionPolicy) func(*Scorer) {
	return func(s *Scorer) { s.division = p }
}

func WithScorerLogger(l *zap.Logger) func(*Scorer) {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithGoldValidators(v *ValidatorRegistry) func(*Scorer) {
	return func(s *Scorer) { s.validators = v }
}

// Scorer computes precision, recall and F1 of tags against a gold standard.
type Scorer struct {
	denominator Denominator
	division    DivisionPolicy
	validators  *ValidatorRegistry
	logger      *zap.Logger
}

// ScoreFile loads the gold standard at goldPath and scores tags against it.
func (s *Scorer) ScoreFile(tags *Tags, goldPath string) (Scores, error) {
	gold, err := LoadGold(goldPath, s.validators)
	if err != nil {
		return Scores{}, err
	}
	return s.Score(tags, gold)
}

// Score compares tags with gold. Records whose instruction was not tagged
// are ignored, malformed ones included; a malformed record that matches
// fails with its *MalformedRecordError.
func (s *Scorer) Score(tags *Tags, gold []GoldRecord) (Scores, error) {
	var sc Scores
	for _, rec := range gold {
		tag, ok := tags.Get(rec.Instruction)
		if !ok {
			continue
		}
		if rec.Err != nil {
			return sc, rec.Err
		}
		sc.Matched++

		if tag.Goal != Unset {
			sc.Answers++
		}
		if tag.Area != Unset {
			sc.Answers++
		}
		if tag.Goal == rec.Goal {
			sc.Correct++
		}
		if slices.Contains(rec.Areas, tag.Area) {
			sc.Correct++
		}

		switch s.denominator {
		case DenominatorAnswers:
			sc.Expected += 2
		default:
			sc.Expected += utf8.RuneCountInString(rec.Goal) + len(rec.Areas)
		}
	}

	s.logger.Debug("gold records compared",
		zap.Int("records", len(gold)),
		zap.Int("matched", sc.Matched),
		zap.Int("correct", sc.Correct),
		zap.Int("answers", sc.Answers),
		zap.Int("expected", sc.Expected),
		zap.Stringer("denominator", s.denominator))

	if s.division == DivisionGuarded {
		if sc.Answers == 0 {
			return sc, fmt.Errorf("%w: no answers given for %d matched records", ErrArithmeticDegenerate, sc.Matched)
		}
		if sc.Expected == 0 {
			return sc, fmt.Errorf("%w: no expected answers in gold standard", ErrArithmeticDegenerate)
		}
	}

	sc.Precision = ratio(sc.Correct, sc.Answers)
	sc.Recall = ratio(sc.Correct, sc.Expected)
	sum := sc.Precision + sc.Recall
	if sum == 0 && s.division == DivisionGuarded {
		return sc, fmt.Errorf("%w: precision and recall are both zero", ErrArithmeticDegenerate)
	}
	sc.F1 = 2 * sc.Precision * sc.Recall / sum
	return sc, nil
}

// ratio divides as IEEE floats, so a zero denominator gives NaN or +Inf.
func ratio(n, d int) float64 {
	if d == 0 {
		if n == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}
	return float64(n) / float64(d)
}
