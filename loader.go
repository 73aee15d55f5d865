package blocktag

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Instruction is one source line in raw and normalized form.
type Instruction struct {
	Line       int    // 1-based source line
	Raw        string // source line, line terminator stripped
	Normalized string // see Normalize
}

// LoadInstructions reads the instruction file at path. A missing file yields
// ErrSourceNotFound before anything is read.
func LoadInstructions(path string, opts ...LoaderOption) ([]Instruction, error) {
	cfg := loaderConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open instructions: %w", err)
	}
	defer f.Close()

	out, err := ReadInstructions(f)
	if err != nil {
		return nil, fmt.Errorf("read instructions %s: %w", path, err)
	}
	cfg.logger.Debug("instructions loaded", zap.String("path", path), zap.Int("lines", len(out)))
	return out, nil
}

// LoaderOption configures LoadInstructions.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	logger *zap.Logger
}

// WithLoaderLogger sets the logger used by LoadInstructions.
func WithLoaderLogger(l *zap.Logger) LoaderOption {
	return func(c *loaderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ReadInstructions reads one instruction per line from r. "\n", "\r\n" and a
// lone "\r" all end a line. Empty lines are kept so that the result stays
// aligned with the source.
func ReadInstructions(r io.Reader) ([]Instruction, error) {
	var out []Instruction
	err := eachTextLine(r, func(n int, line string) error {
		out = append(out, Instruction{
			Line:       n,
			Raw:        line,
			Normalized: Normalize(line),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RawLines returns the raw form of every instruction, in order.
func RawLines(ins []Instruction) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.Raw
	}
	return out
}

// NormalizedLines returns the normalized form of every instruction, in order.
func NormalizedLines(ins []Instruction) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.Normalized
	}
	return out
}

// eachLine calls fn for every line of r with the trailing "\n" removed.
// A final line without a newline is still delivered; a trailing newline at
// EOF does not produce an extra empty line.
func eachLine(r io.Reader, fn func(n int, line string) error) error {
	br := bufio.NewReader(r)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			n++
			if ferr := fn(n, strings.TrimSuffix(line, "\n")); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// eachTextLine is eachLine for text input: "\n", "\r\n" and a lone "\r" all
// terminate a line and none of them reach fn.
func eachTextLine(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sc.Split(scanTextLines)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

const maxLineSize = 1 << 20

func scanTextLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// "\r": wait for the next byte to tell "\r\n" from a lone "\r"
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
