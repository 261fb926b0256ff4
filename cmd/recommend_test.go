package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const observationsCSV = `PARTITION_KEY,WAREHOUSE_SIZE,MODEL_RUNTIME_SCORE,COST,QUERY_TEXT
q1,Small,XS,3,select 1
q1,Small,XS,2,select 1
q2,Medium,S,1,select 2
q2,Huge,S,1,select 2
`

func writeObservations(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obs.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func defaultRunConfig(t *testing.T, input string) RunConfig {
	t.Helper()
	cmd := newRecommendCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--input", input}))
	cfg, err := loadRunConfig(cmd.Flags(), "")
	require.NoError(t, err)
	return cfg
}

func TestRunRecommend_WritesRecommendations(t *testing.T) {
	// GIVEN two partitions, the second ending on an unknown size
	cfg := defaultRunConfig(t, writeObservations(t, observationsCSV))
	cfg.MetricsFile = filepath.Join(t.TempDir(), "metrics.prom")

	// WHEN recommend runs to stdout
	var out bytes.Buffer
	require.NoError(t, runRecommend(context.Background(), cfg, &out))

	// THEN every partition's records are written in input order
	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "partition_key", rows[0][0])
	assert.Equal(t, "q1", rows[1][0])
	assert.Equal(t, []string{"Small", "select 1"}, rows[1][2:4])
	assert.Equal(t, "q1", rows[2][0])
	assert.Equal(t, "q2", rows[3][0])
	assert.Equal(t, []string{"q2", "", "Huge"}, rows[4][:3])
	assert.Equal(t, "terminal", rows[4][9])

	// AND metrics land in the text file
	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `wh_autoscaler_partitions_total{outcome="unknown-size"} 1`)
	assert.Contains(t, string(metrics), `wh_autoscaler_partitions_total{outcome="completed"} 1`)
}

func TestRunRecommend_OutputFile(t *testing.T) {
	cfg := defaultRunConfig(t, writeObservations(t, observationsCSV))
	cfg.Output = filepath.Join(t.TempDir(), "recs.csv")

	var stdout bytes.Buffer
	require.NoError(t, runRecommend(context.Background(), cfg, &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(data), "\n"))
}

func TestRunRecommend_FailModeReportsError(t *testing.T) {
	cfg := defaultRunConfig(t, writeObservations(t, "WAREHOUSE_SIZE,MODEL_RUNTIME_SCORE,COST\nSmall,XS,1\nSmall,XS,abc\n"))
	cfg.OnMalformed = "fail"

	var out bytes.Buffer
	err := runRecommend(context.Background(), cfg, &out)
	require.Error(t, err)

	// the records before the bad row are still written
	rows, csvErr := csv.NewReader(&out).ReadAll()
	require.NoError(t, csvErr)
	assert.Len(t, rows, 2)
}

func TestRunRecommend_SameSeedSameOutput(t *testing.T) {
	input := writeObservations(t, observationsCSV)
	var a, b bytes.Buffer
	require.NoError(t, runRecommend(context.Background(), defaultRunConfig(t, input), &a))
	require.NoError(t, runRecommend(context.Background(), defaultRunConfig(t, input), &b))
	assert.Equal(t, a.String(), b.String())
}

func TestRunRecommend_MissingInput(t *testing.T) {
	cfg := defaultRunConfig(t, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, runRecommend(context.Background(), cfg, &bytes.Buffer{}))
}
