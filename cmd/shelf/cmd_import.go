package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/shelf/internal/app"
	"github.com/MrSnakeDoc/shelf/internal/sources/seed"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import books from a yaml library file",
		Long: `Import adds every book of the file whose title and author are not already
on the shelf. Entries without a title, an author or a positive page count are
reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := seed.NewLoader(args[0]).Load()
			if err != nil {
				return err
			}
			drafts, rejected, err := seed.Map(config)

			out := cmd.OutOrStdout()
			for _, r := range rejected {
				fmt.Fprintf(out, "skipped %q (%s): %s\n", r.Title, r.Shelf, r.Reason)
			}
			if err != nil {
				return err
			}

			if dryRun {
				for _, d := range drafts {
					fmt.Fprintf(out, "would import %q by %s (%d pages)\n", d.Title, d.Author, d.TotalPages)
				}
				return nil
			}

			cfg, log, err := setup()
			if err != nil {
				return err
			}
			core, err := app.NewCore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.MustClose(core, log, "store")

			res := core.Library.Import(cmd.Context(), drafts)
			for _, b := range res.Added {
				fmt.Fprintf(out, "imported %q by %s\n", b.Title, b.Author)
			}
			fmt.Fprintf(out, "%d imported, %d already on the shelf, %d rejected\n",
				len(res.Added), res.Skipped, len(rejected))

			if err := core.Persist.LastSaveError(); err != nil {
				return fmt.Errorf("books imported but not saved: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate the file without importing")
	return cmd
}
