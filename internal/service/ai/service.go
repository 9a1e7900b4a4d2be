package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/care4u/backend/internal/config"
	"github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/service/urgency"
)

const historyLimit = 10

// ErrEmptyInquiry is returned when Respond is called without any text.
var ErrEmptyInquiry = errors.New("inquiry text is empty")

// Assessor grades an inquiry before it reaches the model.
type Assessor interface {
	Assess(ctx context.Context, text string) urgency.Assessment
}

// Service answers patient inquiries with the configured chat model.
type Service struct {
	assessor Assessor
	prompts  *PromptBuilder
	chain    compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the responder chain. assessor may be nil.
func NewService(ctx context.Context, cfg config.AIConfig, assessor Assessor) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, assessor)
}

// NewServiceWithModel builds the responder chain over an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, assessor Assessor) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		assessor: assessor,
		prompts:  NewPromptBuilder(),
		chain:    runnable,
	}, nil
}

// Respond sends the composed context text to the model and returns its reply.
// An empty reply is returned as-is; callers decide how to render it.
func (s *Service) Respond(ctx context.Context, contextText string) (string, error) {
	return s.RespondWithHistory(ctx, nil, contextText)
}

// RespondWithHistory is Respond with the earlier exchanges of the
// conversation placed before the new inquiry.
func (s *Service) RespondWithHistory(ctx context.Context, history []chat.Message, contextText string) (string, error) {
	if strings.TrimSpace(contextText) == "" {
		return "", ErrEmptyInquiry
	}

	var assessment *urgency.Assessment
	if s.assessor != nil {
		result := s.assessor.Assess(ctx, inquiryOf(contextText))
		assessment = &result
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  s.prompts.Build(assessment),
		"history": buildHistoryMessages(history),
		"query":   contextText,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", nil
	}

	log.Printf("[ai] generated response length=%d history=%d", len(response.Content), len(history))
	return response.Content, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.RoleAdvisor:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}

const inquiryMarker = "Student Inquiry:"

// inquiryOf strips the patient preamble so urgency is judged on the
// student's own words only.
func inquiryOf(contextText string) string {
	if idx := strings.LastIndex(contextText, inquiryMarker); idx >= 0 {
		return strings.TrimSpace(contextText[idx+len(inquiryMarker):])
	}
	return contextText
}
