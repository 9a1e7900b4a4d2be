package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "symptoms",
		Short: "List the symptom catalog",
		Run: func(cmd *cobra.Command, args []string) {
			if err := printJSON(cmd.OutOrStdout(), symptom.NewMemoryStore(symptom.Seed()).List()); err != nil {
				exitErr("print", err)
			}
		},
	})
}
