package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/output/sqlite"
)

func newTopCommand(ctx *commandContext) *cobra.Command {
	var database string
	var n int

	cmd := &cobra.Command{
		Use:   "top [run-id]",
		Short: "Show the highest-weight vocabulary terms of a stored run",
		Long:  "Show terms ranked by mean TF-IDF weight. Without a run ID the newest run is used.",
		Args:  cobra.MaximumNArgs(1),
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
				runID, err := resolveRunID(cmd, store, args)
				if err != nil {
					return err
				}
				terms, err := store.TopTerms(cmd.Context(), runID, n)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTopTerms(runID, terms))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "SQLite artifact store path")
	cmd.Flags().IntVarP(&n, "limit", "n", output.DefaultTopTerms, "Number of terms (0 for all)")
	return cmd
}

func resolveRunID(cmd *cobra.Command, store *sqlite.Store, args []string) (string, error) {
	if len(args) == 1 {
		run, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return "", err
		}
		return run.ID, nil
	}
	runs, err := store.ListRuns(cmd.Context(), 1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs stored")
	}
	return runs[0].ID, nil
}

func renderTopTerms(runID string, terms []output.TermWeight) string {
	rows := make([][]string, len(terms))
	for i, t := range terms {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			t.Term,
			strconv.Itoa(t.DF),
			strconv.FormatFloat(t.Weight, 'f', 4, 64),
		}
	}
	return "Run " + runID + "\n" + renderTable(
		[]string{"#", "Term", "DF", "Mean TF-IDF"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
	)
}
