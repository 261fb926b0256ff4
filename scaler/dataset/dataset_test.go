package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshelser/opscenter-autoscaler/scaler"
	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

const sampleCSV = `partition_key,warehouse_size,model_runtime_score,cost,query_text,schema_name,database_name,hint,max_warehouse_size,min_warehouse_size
q1,Small,XS,0.5,select 1,public,analytics,"{""epsilon"": 0.2}",Large,
q2,Medium,L,1.25,select 2,public,analytics,,,Small
q1,Medium,S,0.75,select 1,public,analytics,ignored,,
`

func TestLoadPartitions_GroupsInFirstAppearanceOrder(t *testing.T) {
	// GIVEN rows of two interleaved partitions
	parts, err := LoadPartitions(strings.NewReader(sampleCSV), "")
	require.NoError(t, err)

	// THEN partitions keep first-appearance order and row order
	require.Len(t, parts, 2)
	assert.Equal(t, "q1", parts[0].Key)
	assert.Equal(t, "q2", parts[1].Key)
	require.Len(t, parts[0].Rows, 2)
	assert.Equal(t, "Small", parts[0].Rows[0].ResourceSize)
	assert.Equal(t, "Medium", parts[0].Rows[1].ResourceSize)
	assert.Equal(t, "S", parts[0].Rows[1].RuntimeBucket)
	assert.Equal(t, "0.75", parts[0].Rows[1].Cost)
	assert.Equal(t, trace.Passthrough{QueryText: "select 1", SchemaName: "public", DatabaseName: "analytics"}, parts[0].Rows[0].Passthrough)

	// hint and bounds come from the first row only
	assert.Equal(t, `{"epsilon": 0.2}`, parts[0].Hint)
	assert.Equal(t, "Large", parts[0].MaxSize)
	assert.Equal(t, "Small", parts[1].MinSize)
}

func TestPartition_Hyperparameters(t *testing.T) {
	parts, err := LoadPartitions(strings.NewReader(sampleCSV), "")
	require.NoError(t, err)

	hp := parts[0].Hyperparameters()
	assert.Equal(t, 0.2, hp.Epsilon)
	assert.Equal(t, scaler.SizeBounds{Min: scaler.SizeXSmall, Max: scaler.SizeLarge}, hp.Bounds)

	hp = parts[1].Hyperparameters()
	assert.Equal(t, scaler.DefaultEpsilon, hp.Epsilon)
	assert.Equal(t, scaler.SizeBounds{Min: scaler.SizeSmall, Max: scaler.Size6XLarge}, hp.Bounds)
}

func TestLoadPartitions_SinglePartitionWithoutKeyColumn(t *testing.T) {
	in := "WAREHOUSE_SIZE,MODEL_RUNTIME_SCORE,COST\nSmall,XS,1\nLarge,M,2\n"
	parts, err := LoadPartitions(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, SinglePartitionKey, parts[0].Key)
	assert.Len(t, parts[0].Rows, 2)
	assert.Equal(t, "", parts[0].Rows[0].QueryText)
}

func TestLoadPartitions_CustomPartitionColumn(t *testing.T) {
	in := "tenant,WAREHOUSE_SIZE,MODEL_RUNTIME_SCORE,COST\na,Small,XS,1\nb,Large,M,2\na,Small,S,1\n"
	parts, err := LoadPartitions(strings.NewReader(in), "Tenant")
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0].Rows, 2)
}

func TestLoadPartitions_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"missing cost column", "WAREHOUSE_SIZE,MODEL_RUNTIME_SCORE\nSmall,XS\n"},
		{"ragged row", "WAREHOUSE_SIZE,MODEL_RUNTIME_SCORE,COST\nSmall,XS\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPartitions(strings.NewReader(tt.in), "")
			assert.Error(t, err)
		})
	}
}

func TestLoadPartitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	parts, err := LoadPartitionsFile(path, "")
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	_, err = LoadPartitionsFile(filepath.Join(t.TempDir(), "missing.csv"), "")
	assert.Error(t, err)
}
