package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DekyCS/bagelhacks/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the evaluation report for the recorded interview",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	kv, err := store.OpenKV(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	history, err := store.NewHistory(kv)
	if err != nil {
		return err
	}

	var candidate store.Candidate
	if err := kv.Get(store.KeyCandidate, &candidate); err != nil {
		candidate = store.Candidate{
			Name:     cfg.Interview.CandidateName,
			Company:  cfg.Interview.Company,
			Position: cfg.Interview.Position,
		}
	}

	gen, err := newReportGenerator(cfg.Report)
	if err != nil {
		return err
	}

	rep, err := gen.Generate(cmd.Context(), candidate, history.Messages())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
