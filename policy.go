package blocktag

import "fmt"

// Denominator selects how the expected answer count used for recall is built.
type Denominator int

const (
	// DenominatorReference adds the character length of the gold goal plus the
	// number of acceptable areas per record. Kept so scores stay comparable
	// with previously published numbers.
	DenominatorReference Denominator = iota
	// DenominatorAnswers adds one expected goal and one expected area per record.
	DenominatorAnswers
)

// DivisionPolicy decides what happens when a score has a zero denominator.
type DivisionPolicy int

const (
	DivisionGuarded   DivisionPolicy = iota // return ErrArithmeticDegenerate
	DivisionReference                       // return the raw NaN/Inf result
)

func (d Denominator) String() string {
	switch d {
	case DenominatorAnswers:
		return "answers"
	default:
		return "reference"
	}
}

func (p DivisionPolicy) String() string {
	switch p {
	case DivisionReference:
		return "reference"
	default:
		return "guarded"
	}
}

// ParseDenominator parses the configuration name of a Denominator.
func ParseDenominator(s string) (Denominator, error) {
	switch s {
	case "", "reference":
		return DenominatorReference, nil
	case "answers":
		return DenominatorAnswers, nil
	}
	return 0, fmt.Errorf("unknown denominator %q (want reference or answers)", s)
}

// ParseDivisionPolicy parses the configuration name of a DivisionPolicy.
func ParseDivisionPolicy(s string) (DivisionPolicy, error) {
	switch s {
	case "", "guarded":
		return DivisionGuarded, nil
	case "reference":
		return DivisionReference, nil
	}
	return 0, fmt.Errorf("unknown division policy %q (want guarded or reference)", s)
}
