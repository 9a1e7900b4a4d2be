package ai

import (
	"fmt"
	"strings"

	analysis "github.com/zhouzirui/care4u/backend/internal/analysis/urgency"
	"github.com/zhouzirui/care4u/backend/internal/service/urgency"
)

// PromptBuilder assembles the system instruction for the assistant.
type PromptBuilder struct {
	base       string
	guidelines []string
}

// NewPromptBuilder returns a builder loaded with the Care4U guidelines.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		base: `You are the "Care4U AI Assistant", a virtual extension of the University Medical Center.
Your goal is to provide supportive, professional and clear health guidance to students who are feeling unwell, primarily with common colds and flu.`,
		guidelines: []string{
			"Always keep a calm, trustworthy and caring tone.",
			"Help students tell the symptoms of a cold from those of the flu based on university health protocols.",
			"Give evidence-based self-care advice: hydration (2-3L water), rest (8-10h sleep) and soft nutrition (ginger-based soups, citrus fruits).",
			"EMERGENCY PROTOCOL: if a student mentions severe symptoms (high fever over 103F/39.5C, chest pain, confusion, persistent vomiting, difficulty breathing, bluish lips), immediately output a prominent warning to contact university emergency services or go to the nearest ER.",
			"Remind users you are an AI assistant and that formal clinical diagnoses come from university medical staff.",
			"Format replies with bullet points for readability on mobile devices.",
		},
	}
}

// Build returns the system prompt, extended with the urgency assessment when
// it is above routine.
func (pb *PromptBuilder) Build(assessment *urgency.Assessment) string {
	var builder strings.Builder
	builder.WriteString(pb.base)
	builder.WriteString("\n\nGuidelines:")
	for i, line := range pb.guidelines {
		builder.WriteString(fmt.Sprintf("\n%d. %s", i+1, line))
	}

	if assessment == nil || assessment.Decision.Level == analysis.Routine || assessment.Decision.Level == "" {
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("\n\nUrgency assessment of the current message: %s", assessment.Decision.Level))
	if len(assessment.Decision.Matches) > 0 {
		builder.WriteString(" (signals: ")
		builder.WriteString(strings.Join(assessment.Decision.Matches, ", "))
		builder.WriteString(")")
	}
	builder.WriteString(".")
	if assessment.Directive != "" {
		builder.WriteString("\n")
		builder.WriteString(assessment.Directive)
	}
	return builder.String()
}
