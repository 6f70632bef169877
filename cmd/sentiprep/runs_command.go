package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hejijunhao/sentiprep/internal/output/sqlite"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var database string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs stored in the artifact database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.Output.Database = database
			}
			ctx.initLogging(cfg, false)

			return withStore(cmd.Context(), cfg.Output.Database, func(store *sqlite.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs stored")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						r.ID,
						humanize.Time(r.CreatedAt),
						humanize.Comma(int64(r.Input)),
						humanize.Comma(int64(r.Retained)),
						humanize.Comma(int64(r.VocabularySize)),
						strconv.Itoa(r.TrainRows) + " / " + strconv.Itoa(r.TestRows),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Created", "Input", "Retained", "Vocabulary", "Train / Test"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "SQLite artifact store path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.AddCommand(newRunsRemoveCommand(ctx))
	return cmd
}

func newRunsRemoveCommand(ctx *commandContext) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "rm <run-id>...",
		Short: "Delete stored runs and their artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.Output.Database = database
			}
			ctx.initLogging(cfg, false)

			return withStore(cmd.Context(), cfg.Output.Database, func(store *sqlite.Store) error {
				for _, id := range args {
					if err := store.DeleteRun(cmd.Context(), id); err != nil {
						return fmt.Errorf("delete run %s: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s from %s\n", id, store.Path())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "SQLite artifact store path")
	return cmd
}
