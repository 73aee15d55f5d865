package blocktag

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteTokenFrequencies writes "<token>,<count>" rows, most frequent first.
func WriteTokenFrequencies(w io.Writer, t *FrequencyTable[string]) error {
	cw := csv.NewWriter(w)
	for _, e := range t.Sorted() {
		if err := cw.Write([]string{e.Key, strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBigramFrequencies writes "<bigram>,<count>" rows, most frequent first.
// Bigrams are rendered with Bigram.String and therefore quoted.
func WriteBigramFrequencies(w io.Writer, t *FrequencyTable[Bigram]) error {
	cw := csv.NewWriter(w)
	for _, e := range t.Sorted() {
		if err := cw.Write([]string{e.Key.String(), strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTokenFrequencies parses the output of WriteTokenFrequencies.
func ReadTokenFrequencies(r io.Reader) ([]Entry[string], error) {
	return readFrequencies(r, func(s string) (string, error) { return s, nil })
}

// ReadBigramFrequencies parses the output of WriteBigramFrequencies.
func ReadBigramFrequencies(r io.Reader) ([]Entry[Bigram], error) {
	return readFrequencies(r, ParseBigram)
}

// readFrequencies reads "<key>,<count>" rows. A key or count that does not
// parse yields a *ParseError pointing at the offending field.
func readFrequencies[K comparable](r io.Reader, parse func(string) (K, error)) ([]Entry[K], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	var out []Entry[K]
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		key, err := parse(row[0])
		if err != nil {
			return nil, fieldError(cr, 0, row, err.Error())
		}
		n, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fieldError(cr, 1, row, fmt.Sprintf("count %q is not a number", row[1]))
		}
		out = append(out, Entry[K]{Key: key, Count: n})
	}
}

func fieldError(cr *csv.Reader, field int, row []string, message string) *ParseError {
	line, col := cr.FieldPos(field)
	return NewParseError(Position{Line: line, Column: col}, message, strings.Join(row, ","))
}

// WriteTags writes "<instruction>;<goal>;<area>" rows in insertion order.
func WriteTags(w io.Writer, tags *Tags) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	var err error
	tags.Each(func(instruction string, tag Tag) {
		if err != nil {
			return
		}
		err = cw.Write([]string{instruction, tag.Goal, tag.Area})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteTokenFrequenciesFile writes the token table to path.
func WriteTokenFrequenciesFile(path string, t *FrequencyTable[string]) error {
	return writeFile(path, func(w io.Writer) error { return WriteTokenFrequencies(w, t) })
}

// WriteBigramFrequenciesFile writes the bigram table to path.
func WriteBigramFrequenciesFile(path string, t *FrequencyTable[Bigram]) error {
	return writeFile(path, func(w io.Writer) error { return WriteBigramFrequencies(w, t) })
}

// WriteTagsFile writes tags to path.
func WriteTagsFile(path string, tags *Tags) error {
	return writeFile(path, func(w io.Writer) error { return WriteTags(w, tags) })
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
