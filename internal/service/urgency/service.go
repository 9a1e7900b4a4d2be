package urgency

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/zhouzirui/care4u/backend/internal/analysis/urgency"
)

// Config controls the classifier.
type Config struct {
	Enabled bool
}

// Assessment is the urgency read of one inquiry plus a prompt directive for
// the responder.
type Assessment struct {
	Decision   analysis.Decision
	Directive  string
	Confidence float32
	Reason     string
}

// Service classifies inquiries with the chat model and falls back to the
// keyword heuristic whenever the model is disabled or misbehaves.
type Service struct {
	enabled    bool
	classifier compose.Runnable[map[string]any, *schema.Message]
	fallback   func(text string) analysis.Decision
}

// NewService builds the classifier. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	svc := &Service{
		enabled:  cfg.Enabled && chatModel != nil,
		fallback: analysis.Analyze,
	}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(urgencySystemPrompt),
		schema.UserMessage(urgencyUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile urgency classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether the model-backed classifier is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Assess grades text. It never fails; model errors degrade to the heuristic.
func (s *Service) Assess(ctx context.Context, text string) Assessment {
	if !s.Enabled() {
		return s.fallbackAssessment(text)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"inquiry": strings.TrimSpace(text)})
	if err != nil {
		log.Printf("[urgency] classifier invoke failed, use fallback: %v", err)
		return s.fallbackAssessment(text)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallbackAssessment(text)
	}

	result, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Printf("[urgency] classifier output parse failed, use fallback: %v", err)
		return s.fallbackAssessment(text)
	}

	level, ok := parseLevel(result.Level)
	if !ok {
		return s.fallbackAssessment(text)
	}

	// The heuristic can only raise the model's level, never lower it.
	heuristic := s.fallback(text)
	decision := analysis.Decision{Level: level, Score: heuristic.Score, Matches: heuristic.Matches}
	if rank(heuristic.Level) > rank(level) {
		decision.Level = heuristic.Level
	}

	confidence := result.Confidence
	if confidence <= 0 {
		confidence = 0.6
	}
	if confidence > 1 {
		confidence = 1
	}

	return Assessment{
		Decision:   decision,
		Directive:  directiveByLevel[decision.Level],
		Confidence: confidence,
		Reason:     strings.TrimSpace(result.Reason),
	}
}

func (s *Service) fallbackAssessment(text string) Assessment {
	decision := s.fallback(text)
	confidence := float32(0.3)
	if decision.Score > 0 {
		confidence = 0.55
	}
	return Assessment{
		Decision:   decision,
		Directive:  directiveByLevel[decision.Level],
		Confidence: confidence,
		Reason:     "fallback",
	}
}

func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func parseLevel(raw string) (analysis.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "routine":
		return analysis.Routine, true
	case "elevated":
		return analysis.Elevated, true
	case "emergency":
		return analysis.Emergency, true
	default:
		return "", false
	}
}

func rank(level analysis.Level) int {
	switch level {
	case analysis.Emergency:
		return 2
	case analysis.Elevated:
		return 1
	default:
		return 0
	}
}

type classifierPayload struct {
	Level      string  `json:"level"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason"`
}

const urgencySystemPrompt = "You triage messages sent by university students to a campus health channel. Decide how urgent the message is.\nReturn only one JSON object with the fields: level (one of routine/elevated/emergency), confidence (0 to 1), reason (one short sentence). Use emergency for difficulty breathing, chest pain, confusion, persistent vomiting, bluish lips or fever above 39.5C/103F. No other text."

const urgencyUserPrompt = "Student message:\n{inquiry}\n\nReturn the JSON."

var directiveByLevel = map[analysis.Level]string{
	analysis.Routine:   "",
	analysis.Elevated:  "The student reports worsening or warning signs. Recommend booking a visit with university medical staff soon and list the signs that would need emergency care.",
	analysis.Emergency: "The student describes emergency warning signs. Start the reply with a prominent warning to contact university emergency services or go to the nearest ER immediately.",
}
