package blocktag

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldFixture = "Move block 18 above and to the right of block 15.;18;15\r\n" +
	"Move box 10 two steps to the right.;10;-\r\n" +
	"\r\n" +
	"Take 10 and place it between 12 and 13.;10;12,13\r\n" +
	"Unknown instruction;1;2\r\n"

func fixtureTags(t *testing.T) *Tags {
	t.Helper()
	tags, err := NewTagger().TagAll([]string{
		"Move block 18 above and to the right of block 15.",
		"Move box 10 two steps to the right.",
		"Take 10 and place it between 12 and 13.",
		"Move block eight above block two.",
	})
	require.NoError(t, err)
	return tags
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Scorer(t *testing.T) {
	gold, err := ReadGold(strings.NewReader(goldFixture), nil)
	require.NoError(t, err)

	t.Run("should reproduce the reference arithmetic", func(t *testing.T) {
		sc, err := NewScorer().Score(fixtureTags(t), gold)
		require.NoError(t, err)

		assert.Equal(t, 3, sc.Matched)
		assert.Equal(t, 6, sc.Correct)
		assert.Equal(t, 5, sc.Answers)
		// len("18")+1 + len("10")+1 + len("10")+2
		assert.Equal(t, 10, sc.Expected)
		assert.InDelta(t, 1.2, sc.Precision, 1e-9)
		assert.InDelta(t, 0.6, sc.Recall, 1e-9)
		assert.InDelta(t, 0.8, sc.F1, 1e-9)
	})

	t.Run("should count two expected answers per record in answers mode", func(t *testing.T) {
		sc, err := NewScorer(WithDenominator(DenominatorAnswers)).Score(fixtureTags(t), gold)
		require.NoError(t, err)
		assert.Equal(t, 6, sc.Expected)
		assert.InDelta(t, 1.0, sc.Recall, 1e-9)
		assert.InDelta(t, 2*1.2/2.2, sc.F1, 1e-9)
	})

	t.Run("should report a degenerate score when nothing was answered", func(t *testing.T) {
		tags := NewTags()
		tags.Set("x", NewTag())
		_, err := NewScorer().Score(tags, []GoldRecord{{Instruction: "x", Goal: "-", Areas: []string{"-"}}})
		assert.ErrorIs(t, err, ErrArithmeticDegenerate)
	})

	t.Run("should report a degenerate score when no record matches", func(t *testing.T) {
		_, err := NewScorer().Score(fixtureTags(t), []GoldRecord{{Instruction: "nope", Goal: "1", Areas: []string{"2"}}})
		assert.ErrorIs(t, err, ErrArithmeticDegenerate)
	})

	t.Run("should report a degenerate score when nothing is correct", func(t *testing.T) {
		tags := NewTags()
		tags.Set("Move 1 of 2", Tag{Goal: "1", Area: "2"})
		_, err := NewScorer().Score(tags, []GoldRecord{{Instruction: "Move 1 of 2", Goal: "3", Areas: []string{"4"}}})
		assert.ErrorIs(t, err, ErrArithmeticDegenerate)
	})

	t.Run("should count goal length in characters", func(t *testing.T) {
		tags := NewTags()
		tags.Set("Move 4 of 5", Tag{Goal: "4", Area: "5"})
		// "٤٥" is two characters but four bytes.
		sc, err := NewScorer().Score(tags, []GoldRecord{{Instruction: "Move 4 of 5", Goal: "٤٥", Areas: []string{"5"}}})
		require.NoError(t, err)
		assert.Equal(t, 3, sc.Expected)
		assert.Equal(t, 1, sc.Correct)
	})

	t.Run("should skip malformed records that were not tagged", func(t *testing.T) {
		recs, err := ReadGold(strings.NewReader(goldFixture+"never tagged;1\r\nalone\r\n"), nil)
		require.NoError(t, err)
		sc, err := NewScorer().Score(fixtureTags(t), recs)
		require.NoError(t, err)
		assert.Equal(t, 3, sc.Matched)
		assert.InDelta(t, 0.8, sc.F1, 1e-9)
	})

	t.Run("should fail on a malformed record that was tagged", func(t *testing.T) {
		recs, err := ReadGold(strings.NewReader(goldFixture+"Move box 10 two steps to the right.;10\r\n"), nil)
		require.NoError(t, err)
		_, err = NewScorer().Score(fixtureTags(t), recs)
		var merr *MalformedRecordError
		require.True(t, errors.As(err, &merr), "got %v", err)
		assert.Equal(t, 6, merr.Pos.Line)
		assert.Equal(t, 2, merr.Fields)
	})

	t.Run("should return raw IEEE results under the reference division policy", func(t *testing.T) {
		tags := NewTags()
		tags.Set("x", NewTag())
		sc, err := NewScorer(WithDivisionPolicy(DivisionReference)).
			Score(tags, []GoldRecord{{Instruction: "x", Goal: "-", Areas: []string{"-"}}})
		require.NoError(t, err)
		assert.True(t, math.IsInf(sc.Precision, 1))
		assert.InDelta(t, 1.0, sc.Recall, 1e-9)
		assert.True(t, math.IsNaN(sc.F1))
	})
}

func Test_Scorer_ScoreFile(t *testing.T) {
	t.Run("should score a gold file", func(t *testing.T) {
		path := writeTemp(t, "gold.csv", goldFixture)
		sc, err := NewScorer().ScoreFile(fixtureTags(t), path)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, sc.F1, 1e-9)
	})

	t.Run("should match tags loaded from a CRLF instruction file", func(t *testing.T) {
		insPath := writeTemp(t, "instructions.txt",
			"Move block 18 above and to the right of block 15.\r\n"+
				"Move box 10 two steps to the right.\r\n"+
				"Take 10 and place it between 12 and 13.\r\n"+
				"Move block eight above block two.\r\n")
		ins, err := LoadInstructions(insPath)
		require.NoError(t, err)
		tags, err := NewTagger().TagAll(RawLines(ins))
		require.NoError(t, err)

		sc, err := NewScorer().ScoreFile(tags, writeTemp(t, "gold.csv", goldFixture))
		require.NoError(t, err)
		assert.Equal(t, 3, sc.Matched)
		assert.InDelta(t, 0.8, sc.F1, 1e-9)
	})

	t.Run("should fail when the gold file is missing", func(t *testing.T) {
		_, err := NewScorer().ScoreFile(fixtureTags(t), filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, ErrGoldStandardNotFound)
	})

	t.Run("should apply gold validators", func(t *testing.T) {
		path := writeTemp(t, "gold.csv", "Move 1;one;2\n")
		_, err := NewScorer(WithGoldValidators(DefaultGoldValidators())).ScoreFile(fixtureTags(t), path)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.Equal(t, FieldGoal, verr.Field)
		assert.Equal(t, 1, verr.Pos.Line)
		assert.Equal(t, 8, verr.Pos.Column)
	})
}

func Test_ReadGold(t *testing.T) {
	t.Run("should split areas and strip line endings", func(t *testing.T) {
		recs, err := ReadGold(strings.NewReader(goldFixture), nil)
		require.NoError(t, err)
		require.Len(t, recs, 4)
		assert.Equal(t, GoldRecord{
			Line:        4,
			Instruction: "Take 10 and place it between 12 and 13.",
			Goal:        "10",
			Areas:       []string{"12", "13"},
		}, recs[2])
		assert.Equal(t, []string{"-"}, recs[1].Areas)
	})

	t.Run("should mark a line with too few fields as malformed", func(t *testing.T) {
		recs, err := ReadGold(strings.NewReader("a;1;2\nbroken;1\n"), DefaultGoldValidators())
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Nil(t, recs[0].Err)

		merr := recs[1].Err
		require.NotNil(t, merr)
		assert.Equal(t, "broken", recs[1].Instruction)
		assert.Equal(t, 2, merr.Pos.Line)
		assert.Equal(t, 2, merr.Fields)
		assert.Contains(t, merr.Error(), "broken;1")
	})

	t.Run("should accept numeric labels with default validators", func(t *testing.T) {
		recs, err := ReadGold(strings.NewReader("a;1;2,-\n"), DefaultGoldValidators())
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("should run custom validators", func(t *testing.T) {
		reg := NewValidatorRegistry()
		reg.RegisterFunc(FieldInstruction, func(field, value string, pos Position, line string) error {
			if value == "" {
				return NewValidationError(pos, field, "empty instruction", line)
			}
			return nil
		})
		_, err := ReadGold(strings.NewReader(";1;2\n"), reg)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, FieldInstruction, verr.Field)
	})
}
