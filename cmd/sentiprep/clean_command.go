package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/pipeline"
	"github.com/hejijunhao/sentiprep/internal/source"
)

type cleanedLine struct {
	ID    string      `json:"id"`
	Label model.Label `json:"label"`
	Text  string      `json:"text"`
}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var input, sourceName string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean a dataset and write NDJSON to stdout",
		Long: "Run only the cleaning stage: drop empty posts and duplicates and write\n" +
			"one {\"id\",\"label\",\"text\"} line per retained post.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				cfg.Source.Path = input
			}
			if cmd.Flags().Changed("source") {
				cfg.Source.Provider = sourceName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx.initLogging(cfg, true)

			eng, err := buildEngine(cfg, nil)
			if err != nil {
				return err
			}
			src, srcCfg, err := buildSource(cfg)
			if err != nil {
				return err
			}
			corpus, stats, err := pipeline.New(src, eng, nil).Clean(cmd.Context(), srcCfg)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			enc := json.NewEncoder(w)
			for _, r := range corpus {
				if err := enc.Encode(cleanedLine{ID: r.ID, Label: r.Label, Text: r.Text}); err != nil {
					return fmt.Errorf("clean: write: %w", err)
				}
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("clean: flush: %w", err)
			}
			slog.Info("clean complete", "input", stats.Input, "retained", stats.Retained, "dropped", stats.TotalDropped())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Dataset path (\"-\" for stdin)")
	cmd.Flags().StringVar(&sourceName, "source", "", "Dataset format: "+strings.Join(source.Providers(), ", "))
	return cmd
}
