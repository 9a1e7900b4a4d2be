package triage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrInvalidDuration = errors.New("invalid duration")
)

// Severity is the ordinal classification driving guidance content.
type Severity string

const (
	Mild     Severity = "mild"
	Moderate Severity = "moderate"
	High     Severity = "high"
)

// ParseSeverity normalises user input into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	switch s := Severity(strings.ToLower(strings.TrimSpace(raw))); s {
	case Mild, Moderate, High:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, raw)
	}
}

// Duration is the user-declared illness duration bucket. It only selects a
// care timeline and never affects condition resolution.
type Duration string

const (
	Short  Duration = "short"
	Medium Duration = "medium"
	Long   Duration = "long"
)

// ParseDuration normalises user input into a Duration.
func ParseDuration(raw string) (Duration, error) {
	switch d := Duration(strings.ToLower(strings.TrimSpace(raw))); d {
	case Short, Medium, Long:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
}

// Label is the wording the symptom guide shows for a duration bucket.
func (d Duration) Label() string {
	switch d {
	case Short:
		return "Within 24 Hours"
	case Medium:
		return "1-3 Days"
	case Long:
		return "3+ Days"
	default:
		return string(d)
	}
}

// ConditionRule maps a symptom combination to a named condition.
type ConditionRule struct {
	MatchKeys     []string `json:"matchKeys"`
	ConditionType string   `json:"type"`
	Severity      Severity `json:"severity"`
	Advice        string   `json:"advice"`
}

// Matches reports whether every key of the rule is selected. Order is
// irrelevant; an empty rule never matches.
func (r ConditionRule) Matches(contains func(id string) bool) bool {
	if len(r.MatchKeys) == 0 {
		return false
	}
	for _, key := range r.MatchKeys {
		if !contains(key) {
			return false
		}
	}
	return true
}

// GuidanceBundle holds the three ordered advice lists for a severity.
type GuidanceBundle struct {
	Now   []string `json:"now"`
	Avoid []string `json:"avoid"`
	Meds  []string `json:"meds"`
}

// CareTimeline is the expected recovery window for a duration bucket.
type CareTimeline struct {
	Period string   `json:"period"`
	Focus  []string `json:"focus"`
}

// CareStep is a concrete self-care instruction tied to symptoms.
type CareStep struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Instruction string   `json:"instruction"`
	Icon        string   `json:"icon"`
	SymptomIDs  []string `json:"symptomIds"`
}

// Verdict is the resolved triage outcome for one selection.
type Verdict struct {
	ConditionType string         `json:"type"`
	Severity      Severity       `json:"severity"`
	Advice        string         `json:"advice"`
	Guidance      GuidanceBundle `json:"guidance"`
	Timeline      CareTimeline   `json:"timeline"`
	CareSteps     []CareStep     `json:"careSteps"`
	Emergency     bool           `json:"emergency"`
}

// Summary is the one-line assessment recorded by the host.
func (v Verdict) Summary() string {
	return fmt.Sprintf("Assessed: %s. Severity: %s.", v.ConditionType, v.Severity)
}

// Escalate reports whether the host should route into the conversation view.
func (v Verdict) Escalate() bool {
	return v.Severity == High
}
