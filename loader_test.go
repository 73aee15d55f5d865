package blocktag

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Normalize(t *testing.T) {
	cases := map[string]string{
		"Move block 18 above and to the right of block 15.": "move block num above and to the right of block num",
		"Take 10, then place it!":                            "take num then place it",
		"Stack 3.5 blocks...":                                "stack num blocks",
		"Bewege Würfel 4":                                    "bewege würfel num",
		"":                                                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func Test_ReadInstructions(t *testing.T) {
	t.Run("should keep raw and normalized forms aligned", func(t *testing.T) {
		input := "Move block 18 above block 15.\n\nFind box 3\n"
		ins, err := ReadInstructions(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, ins, 3)

		raw := RawLines(ins)
		norm := NormalizedLines(ins)
		assert.Equal(t, []string{"Move block 18 above block 15.", "", "Find box 3"}, raw)
		assert.Equal(t, []string{"move block num above block num", "", "find box num"}, norm)
		assert.Equal(t, 2, ins[1].Line)
	})

	t.Run("should read a last line without newline", func(t *testing.T) {
		ins, err := ReadInstructions(strings.NewReader("a\nb"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, RawLines(ins))
	})

	t.Run("should strip CRLF and lone CR line endings", func(t *testing.T) {
		ins, err := ReadInstructions(strings.NewReader("Find box 3.\r\n\r\nMove 1\rTake 2\r\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Find box 3.", "", "Move 1", "Take 2"}, RawLines(ins))
		assert.Equal(t, "find box num", ins[0].Normalized)
		assert.Equal(t, 4, ins[3].Line)
	})

	t.Run("should split CRLF delivered one byte at a time", func(t *testing.T) {
		ins, err := ReadInstructions(iotest.OneByteReader(strings.NewReader("a\r\nb\rc\r")))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, RawLines(ins))
	})

	t.Run("should return nothing for empty input", func(t *testing.T) {
		ins, err := ReadInstructions(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, ins)
	})
}

func Test_LoadInstructions(t *testing.T) {
	t.Run("should load a file", func(t *testing.T) {
		path := writeTemp(t, "instructions.txt", "Move block 1 of block 2.\n")
		ins, err := LoadInstructions(path)
		require.NoError(t, err)
		require.Len(t, ins, 1)
		assert.Equal(t, "Move block 1 of block 2.", ins[0].Raw)
	})

	t.Run("should load a CRLF file", func(t *testing.T) {
		path := writeTemp(t, "instructions.txt", "Move block 1 of block 2.\r\nFind 3\r\n")
		ins, err := LoadInstructions(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Move block 1 of block 2.", "Find 3"}, RawLines(ins))
	})

	t.Run("should fail when the file is missing", func(t *testing.T) {
		_, err := LoadInstructions(filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})
}
