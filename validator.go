package blocktag

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names understood by ValidatorRegistry.
const (
	FieldInstruction = "instruction"
	FieldGoal        = "goal"
	FieldArea        = "area"
)

// Validator checks one field value of a gold record.
type Validator interface {
	// Validate returns nil if value is acceptable for field.
	Validate(field, value string, pos Position, line string) error
}

// RegexValidator validates a value against a regular expression.
type RegexValidator struct {
	Pattern     *regexp.Regexp
	Description string // Human-readable description of what the pattern expects
}

// Validate implements the Validator interface.
func (v *RegexValidator) Validate(field, value string, pos Position, line string) error {
	if !v.Pattern.MatchString(value) {
		return NewValidationError(pos, field,
			fmt.Sprintf("value %q does not match expected pattern: %s", value, v.Description),
			line)
	}
	return nil
}

// FuncValidator uses a custom function to validate a value.
type FuncValidator struct {
	ValidateFunc func(field, value string, pos Position, line string) error
}

// Validate implements the Validator interface.
func (v *FuncValidator) Validate(field, value string, pos Position, line string) error {
	return v.ValidateFunc(field, value, pos, line)
}

// ValidatorRegistry manages validators per gold record field.
type ValidatorRegistry struct {
	validators map[string][]Validator
}

// NewValidatorRegistry creates a new validator registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: make(map[string][]Validator),
	}
}

// DefaultGoldValidators requires goal and every area to be a numeral or Unset.
func DefaultGoldValidators() *ValidatorRegistry {
	r := NewValidatorRegistry()
	desc := "a block number or " + Unset
	_ = r.RegisterRegex(FieldGoal, `^(\d+|`+regexp.QuoteMeta(Unset)+`)$`, desc)
	_ = r.RegisterRegex(FieldArea, `^(\d+|`+regexp.QuoteMeta(Unset)+`)$`, desc)
	return r
}

// Register adds a validator for a field. Multiple validators may be
// registered for the same field.
func (r *ValidatorRegistry) Register(field string, validator Validator) {
	if validator == nil {
		return
	}
	field = strings.ToLower(field)
	r.validators[field] = append(r.validators[field], validator)
}

// RegisterRegex creates and registers a RegexValidator.
func (r *ValidatorRegistry) RegisterRegex(field, pattern, description string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern for field %s: %w", field, err)
	}

	r.Register(field, &RegexValidator{
		Pattern:     re,
		Description: description,
	})
	return nil
}

// RegisterFunc creates and registers a FuncValidator.
func (r *ValidatorRegistry) RegisterFunc(field string, fn func(field, value string, pos Position, line string) error) {
	r.Register(field, &FuncValidator{ValidateFunc: fn})
}

// ValidateField runs every validator registered for field.
func (r *ValidatorRegistry) ValidateField(field, value string, pos Position, line string) error {
	for _, v := range r.validators[strings.ToLower(field)] {
		if err := v.Validate(field, value, pos, line); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRecord validates all fields of rec. line is the source line, used
// for error context.
func (r *ValidatorRegistry) ValidateRecord(rec GoldRecord, line string) error {
	pos := Position{Line: rec.Line, Column: 1}
	if err := r.ValidateField(FieldInstruction, rec.Instruction, pos, line); err != nil {
		return err
	}
	pos.Column += len(rec.Instruction) + 1
	if err := r.ValidateField(FieldGoal, rec.Goal, pos, line); err != nil {
		return err
	}
	pos.Column += len(rec.Goal) + 1
	for _, a := range rec.Areas {
		if err := r.ValidateField(FieldArea, a, pos, line); err != nil {
			return err
		}
		pos.Column += len(a) + 1
	}
	return nil
}
