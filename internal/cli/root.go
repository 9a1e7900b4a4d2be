package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

// RootCmd is the triagecli entry point.
var RootCmd = &cobra.Command{
	Use:   "triagecli",
	Short: "Manual checks for the Care4U triage backend",
	Long:  "Resolve symptom selections offline and run single advisor turns against the configured chat model.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("[WARN] failed to load %s, using system environment: %v", envFile, err)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before running")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
