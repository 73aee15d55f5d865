package blocktag

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// GoldRecord is the hand-labelled answer for one instruction.
type GoldRecord struct {
	Line        int
	Instruction string
	Goal        string
	Areas       []string // any of these counts as a correct area

	// Err is set for a line with fewer than three fields. Only Instruction
	// and Line are filled; scoring fails if the instruction was tagged.
	Err *MalformedRecordError
}

// LoadGold reads the gold standard at path. validators may be nil.
func LoadGold(path string, validators *ValidatorRegistry) ([]GoldRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrGoldStandardNotFound, path)
		}
		return nil, fmt.Errorf("open gold standard: %w", err)
	}
	defer f.Close()

	recs, err := ReadGold(f, validators)
	if err != nil {
		return nil, fmt.Errorf("read gold standard %s: %w", path, err)
	}
	return recs, nil
}

// ReadGold parses "<instruction>;<goal>;<area,area,...>" lines. Blank lines
// are skipped. Fields after the third are ignored. A line with fewer fields
// is kept as a record carrying Err, since it only matters once its
// instruction matches a tag.
func ReadGold(r io.Reader, validators *ValidatorRegistry) ([]GoldRecord, error) {
	var out []GoldRecord
	err := eachLine(r, func(n int, line string) error {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return nil
		}
		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			merr := NewMalformedRecordError(Position{Line: n, Column: len(line) + 1}, len(fields),
				"expected <instruction>;<goal>;<areas>", line)
			out = append(out, GoldRecord{Line: n, Instruction: fields[0], Err: merr})
			return nil
		}
		rec := GoldRecord{
			Line:        n,
			Instruction: fields[0],
			Goal:        fields[1],
			Areas:       strings.Split(fields[2], ","),
		}
		if validators != nil {
			if err := validators.ValidateRecord(rec, line); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
