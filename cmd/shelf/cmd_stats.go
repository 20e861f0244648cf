package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/shelf/internal/activity"
	"github.com/MrSnakeDoc/shelf/internal/app"
	"github.com/MrSnakeDoc/shelf/internal/library"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

type statsOutput struct {
	library.Stats
	Activity activity.Summary `json:"activity"`
}

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics and the reading streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			core, err := app.NewCore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.MustClose(core, log, "store")

			st := statsOutput{
				Stats:    core.Library.Stats(),
				Activity: core.Activity.Summary(),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			fmt.Fprintf(out, "Books:       %d\n", st.TotalBooks)
			fmt.Fprintf(out, "  Reading:   %d\n", st.Reading)
			fmt.Fprintf(out, "  Completed: %d\n", st.Completed)
			fmt.Fprintf(out, "  Later:     %d\n", st.Later)
			fmt.Fprintf(out, "Pages read:  %d\n", st.PagesRead)
			fmt.Fprintf(out, "Streak:      %d day(s), longest %d\n", st.Activity.CurrentStreak, st.Activity.LongestStreak)
			fmt.Fprintf(out, "Read today:  %t\n", st.Activity.HasReadToday)
			fmt.Fprintf(out, "Total days:  %d\n", st.Activity.TotalDays)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
