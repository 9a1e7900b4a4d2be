package triage

import "github.com/zhouzirui/care4u/backend/internal/model/symptom"

// FallbackCondition names the verdict synthesised when no rule matches.
const FallbackCondition = "Personal Viral Profile"

// FallbackAdvice accompanies FallbackCondition.
const FallbackAdvice = "The identified symptoms suggest a common viral pattern. Proactive rest and consistent hydration are advised."

// EmergencyRule fires whenever breathing difficulty is selected, ahead of
// every other rule.
func EmergencyRule() ConditionRule {
	return ConditionRule{
		MatchKeys:     []string{symptom.Breath},
		ConditionType: "Emergency Alert",
		Severity:      High,
		Advice:        "Breathing difficulties require immediate medical attention. Please visit the university clinic or emergency services now.",
	}
}

// Rules returns the multi-symptom rules in evaluation order. The first rule
// whose keys are all selected wins.
func Rules() []ConditionRule {
	return []ConditionRule{
		{
			MatchKeys:     []string{symptom.Fever, symptom.Cough, symptom.Fatigue},
			ConditionType: "Flu Pattern",
			Severity:      Moderate,
			Advice:        "Your symptoms align with common flu. Rest, hydration, and monitoring are crucial for the next 48-72 hours.",
		},
		{
			MatchKeys:     []string{symptom.Cough, symptom.Throat},
			ConditionType: "Common Cold",
			Severity:      Mild,
			Advice:        "Classic cold symptoms detected. Focus on rest, warm fluids, and throat care.",
		},
	}
}

var guidance = map[Severity]GuidanceBundle{
	Mild: {
		Now: []string{
			"Drink 2-3 liters of water or herbal tea daily",
			"Sleep 8-10 hours per night",
			"Eat warm, nutritious soups and soft foods",
		},
		Avoid: []string{
			"Strenuous physical activity",
			"Cold beverages and ice cream",
			"Crowded spaces to prevent spread",
		},
		Meds: []string{
			"Vitamin C supplements (500-1000mg)",
			"Throat lozenges for comfort",
			"Paracetamol for mild discomfort (as directed)",
		},
	},
	Moderate: {
		Now: []string{
			"Maintain strict hydration (3L+ fluids)",
			"Complete bed rest for 48 hours minimum",
			"Monitor temperature every 4 hours",
			"Use humidifier if available",
		},
		Avoid: []string{
			"Any physical exertion",
			"Alcohol and caffeine",
			"Self-medication without consultation",
		},
		Meds: []string{
			"Paracetamol or ibuprofen (follow dosage)",
			"Cough suppressants if dry cough",
			"Consult pharmacy for combination remedies",
		},
	},
	High: {
		Now: []string{
			"⚠️ SEEK IMMEDIATE MEDICAL ATTENTION",
			"Do not delay - visit clinic or ER",
			"Have someone accompany you",
			"Bring your student ID and health records",
		},
		Avoid: []string{
			"Attempting to self-treat",
			"Driving yourself to clinic",
			"Ignoring warning signs",
		},
		Meds: []string{
			"Only take prescribed medications",
			"Follow doctor's instructions exactly",
			"Report all symptoms to medical staff",
		},
	},
}

var timelines = map[Duration]CareTimeline{
	Short: {
		Period: "24-48 hours",
		Focus:  []string{"Immediate rest", "High fluid intake", "Monitor temperature"},
	},
	Medium: {
		Period: "3-5 days",
		Focus:  []string{"Structured rest periods", "Balanced nutrition", "Gradual activity"},
	},
	Long: {
		Period: "7+ days",
		Focus:  []string{"Medical consultation", "Extended recovery", "Follow-up assessment"},
	},
}

var careSteps = []CareStep{
	{ID: "s1", Title: "Hydration Protocol", Instruction: "Drink 250ml of water or herbal tea every 2 hours", Icon: "💧", SymptomIDs: []string{symptom.Fever, symptom.Cough, symptom.Throat}},
	{ID: "s2", Title: "Rest Cycle", Instruction: "Complete bed rest for first 24-48 hours", Icon: "🛏️", SymptomIDs: []string{symptom.Fever, symptom.Fatigue}},
	{ID: "s3", Title: "Temperature Monitoring", Instruction: "Check temperature every 4 hours", Icon: "🌡️", SymptomIDs: []string{symptom.Fever}},
	{ID: "s4", Title: "Throat Care", Instruction: "Gargle with warm salt water 3x daily", Icon: "🤒", SymptomIDs: []string{symptom.Throat}},
}

// Guidance returns a copy of the bundle for severity. Unknown values use the
// mild bundle.
func Guidance(severity Severity) GuidanceBundle {
	bundle, ok := guidance[severity]
	if !ok {
		bundle = guidance[Mild]
	}
	return GuidanceBundle{
		Now:   append([]string(nil), bundle.Now...),
		Avoid: append([]string(nil), bundle.Avoid...),
		Meds:  append([]string(nil), bundle.Meds...),
	}
}

// Timeline returns a copy of the timeline for duration. Unknown values use
// the short timeline.
func Timeline(duration Duration) CareTimeline {
	timeline, ok := timelines[duration]
	if !ok {
		timeline = timelines[Short]
	}
	return CareTimeline{
		Period: timeline.Period,
		Focus:  append([]string(nil), timeline.Focus...),
	}
}

// CareStepsFor returns, in table order, the steps relevant to any selected id.
func CareStepsFor(contains func(id string) bool) []CareStep {
	steps := make([]CareStep, 0, len(careSteps))
	for _, step := range careSteps {
		for _, id := range step.SymptomIDs {
			if contains(id) {
				step.SymptomIDs = append([]string(nil), step.SymptomIDs...)
				steps = append(steps, step)
				break
			}
		}
	}
	return steps
}
