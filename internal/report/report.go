// Package report renders the outcome of an evaluation run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/grahms/blocktag"
)

// Report summarises one run.
type Report struct {
	RunID        string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Instructions string `json:"instructions" yaml:"instructions"`
	Gold         string `json:"gold" yaml:"gold"`
	Lines        int    `json:"lines" yaml:"lines"`
	Tagged       int    `json:"tagged" yaml:"tagged"`
	Denominator  string `json:"denominator" yaml:"denominator"`

	Scores blocktag.Scores `json:"scores" yaml:"scores"`
}

// Write renders r to w in format ("text", "yaml" or "json"). YAML keeps
// non-finite scores as .inf and .nan; JSON has no such values and gets 0.
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sanitized(r))
	case "text", "":
		_, err := fmt.Fprintf(w, "precision: %s\nrecall: %s\nF1: %s\n",
			formatScore(r.Scores.Precision), formatScore(r.Scores.Recall), formatScore(r.Scores.F1))
		return err
	}
	return fmt.Errorf("unknown report format %q", format)
}

// sanitized zeroes non-finite scores, which JSON cannot represent.
func sanitized(r Report) Report {
	for _, f := range []*float64{&r.Scores.Precision, &r.Scores.Recall, &r.Scores.F1} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return r
}

func formatScore(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return fmt.Sprintf("%v", f)
}
