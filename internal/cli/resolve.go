package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	"github.com/zhouzirui/care4u/backend/internal/model/triage"
	triageService "github.com/zhouzirui/care4u/backend/internal/service/triage"
)

func init() {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a symptom selection into a triage verdict",
		Run:   runResolve,
	}

	cmd.Flags().StringP("symptoms", "s", "", "Selected symptom ids (comma-separated)")
	cmd.Flags().String("severity", string(triage.Mild), "Declared severity: mild, moderate or high")
	cmd.Flags().String("duration", string(triage.Short), "Illness duration: short, medium or long")

	RootCmd.AddCommand(cmd)
}

type resolveOutput struct {
	triage.Verdict
	Escalate bool   `json:"escalate"`
	Summary  string `json:"summary"`
}

func runResolve(cmd *cobra.Command, args []string) {
	symptoms, _ := cmd.Flags().GetString("symptoms")
	severity, _ := cmd.Flags().GetString("severity")
	duration, _ := cmd.Flags().GetString("duration")

	if err := resolve(cmd.OutOrStdout(), splitIDs(symptoms), severity, duration); err != nil {
		exitErr("resolve", err)
	}
}

func resolve(w io.Writer, ids []string, rawSeverity, rawDuration string) error {
	severity, err := triage.ParseSeverity(rawSeverity)
	if err != nil {
		return err
	}
	duration, err := triage.ParseDuration(rawDuration)
	if err != nil {
		return err
	}

	verdict := triageService.NewEngine().Resolve(symptom.NewSelection(ids...), severity, duration)
	return printJSON(w, resolveOutput{
		Verdict:  verdict,
		Escalate: verdict.Escalate(),
		Summary:  verdict.Summary(),
	})
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
