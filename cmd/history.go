package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/h5play/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent completions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		only, _ := cmd.Flags().GetString("only")

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.CompletionRepo().Query(cmd.Context(), store.QueryOpts{Limit: limit, ActivityID: only})
		if err != nil {
			return fmt.Errorf("query completions: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No completions recorded yet.")
			return nil
		}

		t := newTable("When", "Activity", "Verb", "Time", "Correct")
		for _, r := range recs {
			correct := "-"
			if r.CorrectAnswers != nil {
				correct = strconv.Itoa(*r.CorrectAnswers)
			}
			t.Row(r.RecordedAt.Local().Format("2006-01-02 15:04"), r.ActivityID, r.Verb, r.Elapsed, correct)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of completions to show (0 = all)")
	historyCmd.Flags().String("only", "", "Only show completions of this activity")
}
