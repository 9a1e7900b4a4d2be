package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/care4u/backend/internal/config"
	model "github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	"github.com/zhouzirui/care4u/backend/internal/service/ai"
	"github.com/zhouzirui/care4u/backend/internal/service/chat"
	"github.com/zhouzirui/care4u/backend/internal/service/urgency"
)

var errTurnIgnored = errors.New("message was ignored")

func init() {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Run one advisor turn and print the transcript",
		Args:  cobra.ExactArgs(1),
		Run:   runChat,
	}

	cmd.Flags().StringP("user", "u", "cli-user", "Patient id sent in the context text")
	cmd.Flags().StringP("symptoms", "s", "", "Selected symptom ids (comma-separated)")
	cmd.Flags().Duration("timeout", 45*time.Second, "Overall time limit for the turn")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	symptoms, _ := cmd.Flags().GetString("symptoms")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := config.Load()
	if err != nil {
		exitErr("load config", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	responder, err := newResponder(ctx, cfg.AI)
	if err != nil {
		exitErr("init responder", err)
	}

	if err := runTurn(ctx, cmd.OutOrStdout(), responder, userID, splitIDs(symptoms), args[0], timeout); err != nil {
		exitErr("chat", err)
	}
}

// newResponder returns nil when no model is configured so the turn ends with
// the fallback advisor text.
func newResponder(ctx context.Context, cfg config.AIConfig) (chat.Responder, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, err
	}
	urgencySvc, err := urgency.NewService(ctx, chatModel, urgency.Config{Enabled: cfg.UrgencyLLMEnabled})
	if err != nil {
		return nil, err
	}
	return ai.NewServiceWithModel(ctx, chatModel, urgencySvc)
}

func runTurn(ctx context.Context, w io.Writer, responder chat.Responder, userID string, symptomIDs []string, text string, timeout time.Duration) error {
	svc := chat.NewService(symptom.NewMemoryStore(symptom.Seed()), responder, chat.Options{ResponderTimeout: timeout})
	defer svc.Close()

	created, err := svc.CreateSession(ctx, userID, symptomIDs)
	if err != nil {
		return err
	}
	session, err := svc.Session(created.ID)
	if err != nil {
		return err
	}

	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	if !session.Send(text) {
		return errTurnIgnored
	}

	for done := false; !done; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok || event.Type == model.EventIdle {
				done = true
			}
		}
	}

	for _, msg := range session.Snapshot().Messages {
		speaker := "you"
		if msg.Role == model.RoleAdvisor {
			speaker = "advisor"
		}
		if _, err := fmt.Fprintf(w, "[%s] %s (%s)\n%s\n\n", speaker, msg.CreatedAt.Format(time.Kitchen), msg.Status, strings.TrimSpace(msg.Text)); err != nil {
			return err
		}
	}
	return nil
}
