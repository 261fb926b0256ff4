// Package dataset reads observation partitions from CSV and writes
// recommendation traces back out as CSV.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joshelser/opscenter-autoscaler/scaler"
	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// Input column names. Matching is case-insensitive.
const (
	ColumnWarehouseSize = "WAREHOUSE_SIZE"
	ColumnRuntimeScore  = "MODEL_RUNTIME_SCORE"
	ColumnCost          = "COST"
	ColumnQueryText     = "QUERY_TEXT"
	ColumnSchemaName    = "SCHEMA_NAME"
	ColumnDatabaseName  = "DATABASE_NAME"
	ColumnHint          = "HINT"
	ColumnMaxSize       = "MAX_WAREHOUSE_SIZE"
	ColumnMinSize       = "MIN_WAREHOUSE_SIZE"

	// DefaultPartitionColumn groups rows into partitions when present.
	DefaultPartitionColumn = "PARTITION_KEY"

	// SinglePartitionKey names the only partition when the input has no partition column.
	SinglePartitionKey = "default"
)

var requiredColumns = []string{ColumnWarehouseSize, ColumnRuntimeScore, ColumnCost}

// Partition is one ordered batch of observations. Hint and size bounds come
// from the partition's first row.
type Partition struct {
	Key     string
	Hint    string
	MaxSize string
	MinSize string
	Rows    []scaler.Observation
}

// Hyperparameters resolves the partition's hint and size bound columns.
// Bound columns take precedence over bounds given inside the hint.
func (p Partition) Hyperparameters() scaler.Hyperparameters {
	return scaler.ParseHint(p.Hint).WithBounds(p.MinSize, p.MaxSize)
}

// LoadPartitionsFile reads partitions from a CSV file.
func LoadPartitionsFile(path, partitionColumn string) ([]Partition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening observations: %w", err)
	}
	defer func() { _ = file.Close() }()
	return LoadPartitions(file, partitionColumn)
}

// LoadPartitions reads CSV observations and groups them by partitionColumn,
// keeping row order within each partition and first-appearance order across
// partitions. If the column is absent every row lands in SinglePartitionKey.
// Costs are not parsed here; a bad cost surfaces when the partition runs.
func LoadPartitions(r io.Reader, partitionColumn string) ([]Partition, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("CSV header is missing required column %s", name)
		}
	}
	if partitionColumn == "" {
		partitionColumn = DefaultPartitionColumn
	}
	partitionIdx, partitioned := cols[strings.ToUpper(partitionColumn)]

	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok {
			return row[i]
		}
		return ""
	}

	var partitions []*Partition
	byKey := make(map[string]*Partition)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		key := SinglePartitionKey
		if partitioned {
			key = row[partitionIdx]
		}
		p, ok := byKey[key]
		if !ok {
			p = &Partition{
				Key:     key,
				Hint:    field(row, ColumnHint),
				MaxSize: strings.TrimSpace(field(row, ColumnMaxSize)),
				MinSize: strings.TrimSpace(field(row, ColumnMinSize)),
			}
			byKey[key] = p
			partitions = append(partitions, p)
		}
		p.Rows = append(p.Rows, scaler.Observation{
			ResourceSize:  strings.TrimSpace(field(row, ColumnWarehouseSize)),
			RuntimeBucket: strings.TrimSpace(field(row, ColumnRuntimeScore)),
			Cost:          field(row, ColumnCost),
			Passthrough: trace.Passthrough{
				QueryText:    field(row, ColumnQueryText),
				SchemaName:   field(row, ColumnSchemaName),
				DatabaseName: field(row, ColumnDatabaseName),
			},
		})
	}

	out := make([]Partition, len(partitions))
	for i, p := range partitions {
		out[i] = *p
	}
	return out, nil
}
