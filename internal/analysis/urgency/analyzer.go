package urgency

import (
	"sort"
	"strings"
)

// Level is the urgency of a student inquiry.
type Level string

const (
	Routine   Level = "routine"
	Elevated  Level = "elevated"
	Emergency Level = "emergency"
)

// Decision is the heuristic verdict for one text.
type Decision struct {
	Level   Level
	Score   int
	Matches []string
}

// redFlags trigger the emergency protocol on their own.
var redFlags = []string{
	"can't breathe", "cannot breathe", "difficulty breathing", "hard to breathe", "short of breath",
	"shortness of breath", "chest pain", "chest tightness", "confusion", "confused", "fainted",
	"passed out", "bluish lips", "blue lips", "lips are blue", "persistent vomiting", "keep vomiting",
	"can't stop vomiting", "seizure", "coughing blood", "coughing up blood", "39.5", "40c", "103f", "104f",
	"stiff neck",
}

// warningSigns raise the level without forcing an emergency.
var warningSigns = []string{
	"high fever", "fever won't go down", "getting worse", "worse", "vomiting", "dizzy", "dizziness",
	"dehydrated", "can't eat", "can't drink", "severe", "wheezing", "rash", "days now", "a week",
}

const (
	redFlagWeight = 5
	warningWeight = 2
	elevatedScore = 4
)

// Analyze scores text against red-flag and warning phrase lists.
func Analyze(text string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Decision{Level: Routine}
	}

	score := 0
	matched := make(map[string]bool)
	emergency := false

	for _, phrase := range redFlags {
		if strings.Contains(normalized, phrase) {
			score += redFlagWeight
			matched[phrase] = true
			emergency = true
		}
	}
	for _, phrase := range warningSigns {
		if strings.Contains(normalized, phrase) {
			score += warningWeight
			matched[phrase] = true
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 2 {
		score++
	}

	level := Routine
	switch {
	case emergency:
		level = Emergency
	case score >= elevatedScore:
		level = Elevated
	}

	matches := make([]string, 0, len(matched))
	for phrase := range matched {
		matches = append(matches, phrase)
	}
	sort.Strings(matches)

	return Decision{Level: level, Score: score, Matches: matches}
}
