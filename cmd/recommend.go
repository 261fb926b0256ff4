package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshelser/opscenter-autoscaler/scaler"
	"github.com/joshelser/opscenter-autoscaler/scaler/dataset"
	"github.com/joshelser/opscenter-autoscaler/scaler/fleet"
	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// newRecommendCmd builds the recommend command with its own flag set.
func newRecommendCmd() *cobra.Command {
	var minSize, maxSize sizeValue

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend the next warehouse size for every observation row",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			return runRecommend(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "CSV file of observations (WAREHOUSE_SIZE, MODEL_RUNTIME_SCORE, COST, ...)")
	flags.StringP("output", "o", "-", "Where to write recommendations as CSV; - for stdout")
	flags.Int64("seed", 42, "Seed for exploration; identical seeds reproduce identical output")
	flags.Int("workers", 0, "Partitions processed in parallel (0 = GOMAXPROCS)")
	flags.String("reward", "anti-flapping", "Reward model (differential, anti-flapping)")
	flags.String("restart", "historical-replay", "Restart policy after a reward collapse (historical-replay, none)")
	flags.String("prior", scaler.DefaultPriorName, "Initial Q-table")
	flags.String("on-malformed", string(scaler.MalformedTerminate), "Malformed row handling (terminate, fail)")
	flags.String("partition-column", dataset.DefaultPartitionColumn, "Column that groups rows into partitions")
	flags.Var(&minSize, "min-size", "Smallest size to recommend when a partition sets no bounds")
	flags.Var(&maxSize, "max-size", "Largest size to recommend when a partition sets no bounds")
	flags.String("metrics-file", "", "Write Prometheus metrics in text format to this file")
	return cmd
}

// runRecommend loads the observations, runs every partition and writes the
// recommendations. Partitions aborted under on-malformed=fail still have their
// records written; the run then reports an error.
func runRecommend(ctx context.Context, cfg RunConfig, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	partitions, err := dataset.LoadPartitionsFile(cfg.Input, cfg.PartitionColumn)
	if err != nil {
		return err
	}
	logrus.Infof("loaded %d partitions from %s", len(partitions), cfg.Input)

	registry := prometheus.NewRegistry()
	runner, err := fleet.NewRunner(cfg.fleetOptions(), fleet.NewMetrics(registry))
	if err != nil {
		return err
	}
	results, err := runner.Run(ctx, partitions)
	if err != nil {
		return fmt.Errorf("running partitions: %w", err)
	}

	traces := make([]*trace.PartitionTrace, 0, len(results))
	failed := 0
	for _, res := range results {
		traces = append(traces, res.Trace)
		if res.Err != nil {
			failed++
		}
		s := trace.Summarize(res.Trace)
		logrus.Debugf("partition %q: %d records, %d restarts, %d flaps, mean reward %.4f, termination %q",
			res.Partition, s.TotalRecords, s.Restarts, s.Flaps, s.MeanReward, s.Termination)
	}

	if err := writeOutput(cfg.Output, stdout, traces); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	logrus.Infof("wrote recommendations for %d partitions", len(traces))
	if failed > 0 {
		return fmt.Errorf("%d of %d partitions aborted on malformed rows", failed, len(results))
	}
	return nil
}

func writeOutput(path string, stdout io.Writer, traces []*trace.PartitionTrace) error {
	if path == "" || path == "-" {
		return dataset.WriteRecommendations(stdout, traces)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := dataset.WriteRecommendations(file, traces); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
