package blocktag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotFound is returned when the instruction file does not exist.
	ErrSourceNotFound = errors.New("instruction source not found")
	// ErrGoldStandardNotFound is returned when the gold standard file does not exist.
	ErrGoldStandardNotFound = errors.New("gold standard not found")
	// ErrNoInstructions is returned when tagging is invoked without instructions.
	ErrNoInstructions = errors.New("no instructions were collected")
	// ErrArithmeticDegenerate is returned when a score has a zero denominator.
	ErrArithmeticDegenerate = errors.New("degenerate score: zero denominator")
)

// Position represents a position in an input file.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError is the base error type for all input parsing errors.
type ParseError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Context string   // Surrounding content for context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", e.Message, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// MalformedRecordError represents a gold standard line that cannot be split
// into instruction, goal and area fields.
type MalformedRecordError struct {
	ParseError
	Fields int // Number of fields actually found
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed gold record at %s: %s (got %d fields)\nContext: %s",
		e.Pos, e.Message, e.Fields, e.Context)
}

// ValidationError represents a gold record field that failed validation.
type ValidationError struct {
	ParseError
	Field string // Name of the field that failed validation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q at %s: %s\nContext: %s",
		e.Field, e.Pos, e.Message, e.Context)
}

// NewParseError creates a new ParseError with context.
func NewParseError(pos Position, message, content string) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: message,
		Context: extractContext(content, pos),
	}
}

// NewMalformedRecordError creates a new MalformedRecordError.
func NewMalformedRecordError(pos Position, fields int, message, content string) *MalformedRecordError {
	return &MalformedRecordError{
		ParseError: ParseError{
			Pos:     pos,
			Message: message,
			Context: extractContext(content, pos),
		},
		Fields: fields,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(pos Position, field, message, content string) *ValidationError {
	return &ValidationError{
		ParseError: ParseError{
			Pos:     pos,
			Message: message,
			Context: extractContext(content, pos),
		},
		Field: field,
	}
}

// extractContext extracts a snippet of text around the error position.
// content may be the whole file or a single line; a single line is shown
// as the error line itself.
func extractContext(content string, pos Position) string {
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	if len(lines) == 1 {
		return fmt.Sprintf("-> %d: %s\n", pos.Line, lines[0])
	}
	if pos.Line < 1 || pos.Line > len(lines) {
		return content
	}

	startLine := max(0, pos.Line-3)
	endLine := min(len(lines)-1, pos.Line+1)

	var b strings.Builder
	for i := startLine; i <= endLine; i++ {
		lineNum := i + 1
		if lineNum == pos.Line {
			b.WriteString(fmt.Sprintf("-> %d: %s\n", lineNum, lines[i]))
			if pos.Column > 0 && pos.Column <= len(lines[i])+1 {
				b.WriteString(strings.Repeat(" ", pos.Column+5) + "^\n")
			}
		} else {
			b.WriteString(fmt.Sprintf("   %d: %s\n", lineNum, lines[i]))
		}
	}

	return b.String()
}
