package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hejijunhao/sentiprep/internal/config"
	"github.com/hejijunhao/sentiprep/internal/metrics"
	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/output/file"
	"github.com/hejijunhao/sentiprep/internal/output/multi"
	"github.com/hejijunhao/sentiprep/internal/output/sqlite"
	"github.com/hejijunhao/sentiprep/internal/output/stdout"
	"github.com/hejijunhao/sentiprep/internal/output/webhook"
	"github.com/hejijunhao/sentiprep/internal/pipeline"
	"github.com/hejijunhao/sentiprep/internal/source"
)

type prepareFlags struct {
	input      string
	source     string
	outputs    []string
	outFile    string
	database   string
	webhookURL string
	metrics    string
	sampleSize int
	minDF      int
	maxVocab   int
	ngrams     string
	testRatio  float64
	seed       uint64
	rebalance  bool
	topN       int
	pretty     bool
}

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var f prepareFlags

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Clean, vectorize and split a labeled dataset",
		Long: "Load a dataset, clean every post, build the TF-IDF feature matrix and\n" +
			"split it into stratified train/test rows. Results go to the configured\n" +
			"outputs (stdout summary, NDJSON rows, SQLite artifact store, webhook).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			ctx.initLogging(cfg, slices.Contains(cfg.Output.Formats, "stdout"))
			return runPrepare(cmd, cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Dataset path (\"-\" for stdin)")
	flags.StringVar(&f.source, "source", "", "Dataset format: "+strings.Join(source.Providers(), ", "))
	flags.StringSliceVarP(&f.outputs, "output", "o", nil, "Outputs: stdout, file, sqlite, webhook")
	flags.StringVar(&f.outFile, "out-file", "", "NDJSON feature rows path for the file output")
	flags.StringVar(&f.database, "db", "", "SQLite artifact store path")
	flags.StringVar(&f.webhookURL, "webhook-url", "", "POST the run summary to this URL")
	flags.StringVar(&f.metrics, "metrics-textfile", "", "Write Prometheus metrics to this file")
	flags.IntVar(&f.sampleSize, "sample-size", 0, "Balanced pre-cleaning sample size (0 keeps all)")
	flags.IntVar(&f.minDF, "min-df", 0, "Minimum document frequency")
	flags.IntVar(&f.maxVocab, "max-vocab", 0, "Maximum vocabulary size")
	flags.StringVar(&f.ngrams, "ngram-range", "", "N-gram range as min,max")
	flags.Float64Var(&f.testRatio, "test-ratio", 0, "Share of rows held out for testing")
	flags.Uint64Var(&f.seed, "seed", 0, "Random seed")
	flags.BoolVar(&f.rebalance, "rebalance", false, "Downsample to equal classes after cleaning")
	flags.IntVar(&f.topN, "top", output.DefaultTopTerms, "Terms listed in the summary")
	flags.BoolVar(&f.pretty, "pretty", false, "Indent the JSON summary")

	return cmd
}

// apply overlays explicitly set flags onto cfg and re-validates.
func (f prepareFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Source.Path = f.input
	}
	if changed("source") {
		cfg.Source.Provider = f.source
	}
	if changed("output") {
		cfg.Output.Formats = f.outputs
	}
	if changed("out-file") {
		cfg.Output.Path = f.outFile
	}
	if changed("db") {
		cfg.Output.Database = f.database
	}
	if changed("webhook-url") {
		cfg.Output.WebhookURL = f.webhookURL
	}
	if changed("metrics-textfile") {
		cfg.Output.MetricsTextfile = f.metrics
	}
	if changed("sample-size") {
		cfg.Sampling.SampleSize = f.sampleSize
	}
	if changed("min-df") {
		cfg.Vectorizer.MinDF = f.minDF
	}
	if changed("max-vocab") {
		cfg.Vectorizer.MaxVocabSize = f.maxVocab
	}
	if changed("ngram-range") {
		lo, hi, err := config.ParseNgramRange(f.ngrams)
		if err != nil {
			return err
		}
		cfg.Vectorizer.NgramMin, cfg.Vectorizer.NgramMax = lo, hi
	}
	if changed("test-ratio") {
		cfg.Split.TestRatio = f.testRatio
	}
	if changed("seed") {
		cfg.Split.Seed = f.seed
	}
	if changed("rebalance") {
		cfg.Sampling.Rebalance = f.rebalance
	}
	return cfg.Validate()
}

func runPrepare(cmd *cobra.Command, cfg config.Config, f prepareFlags) error {
	obs, err := metrics.NewObserver("", nil)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, obs)
	if err != nil {
		return err
	}
	src, srcCfg, err := buildSource(cfg)
	if err != nil {
		return err
	}
	out, err := buildOutputs(cmd, cfg, f)
	if err != nil {
		return err
	}

	p := pipeline.New(src, eng, out)
	res, runErr := p.Run(cmd.Context(), srcCfg)
	if err := p.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	if err := obs.WriteTextfile(cfg.Output.MetricsTextfile); err != nil {
		return err
	}
	if !slices.Contains(cfg.Output.Formats, "stdout") {
		printRunTable(cmd.OutOrStdout(), res)
	}
	return nil
}

func buildOutputs(cmd *cobra.Command, cfg config.Config, f prepareFlags) (output.Output, error) {
	var outs []output.Output
	closeAll := func() {
		for _, o := range outs {
			_ = o.Close()
		}
	}
	for _, name := range cfg.Output.Formats {
		switch name {
		case "stdout":
			outs = append(outs, stdout.NewWriter(cmd.OutOrStdout(), f.topN, f.pretty))
		case "file":
			o, err := file.New(cfg.Output.Path)
			if err != nil {
				closeAll()
				return nil, err
			}
			outs = append(outs, o)
		case "sqlite":
			o, err := sqlite.Open(cmd.Context(), cfg.Output.Database)
			if err != nil {
				closeAll()
				return nil, err
			}
			outs = append(outs, o)
		case "webhook":
			outs = append(outs, webhook.New(cfg.Output.WebhookURL, webhook.WithTopTerms(f.topN)))
		default:
			closeAll()
			return nil, &model.ConfigurationError{Option: "output.formats", Reason: fmt.Sprintf("unknown output %q", name)}
		}
	}
	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}

func printRunTable(w io.Writer, res *model.Result) {
	s := output.Summarize(res, 0)
	rows := [][]string{
		{"run", s.RunID},
		{"input", humanize.Comma(int64(s.Input))},
		{"retained", humanize.Comma(int64(s.Retained))},
	}
	for _, reason := range output.SortedDropReasons(s.Dropped) {
		rows = append(rows, []string{"dropped: " + reason, humanize.Comma(int64(s.Dropped[reason]))})
	}
	rows = append(rows,
		[]string{"vocabulary", humanize.Comma(int64(s.VocabularySize))},
		[]string{"non-zero cells", humanize.Comma(int64(s.NonZero))},
		[]string{"train / test", strconv.Itoa(s.Train) + " / " + strconv.Itoa(s.Test)},
	)
	fmt.Fprintln(w, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	for _, warning := range s.Warnings {
		fmt.Fprintln(w, "warning:", warning)
	}
}
