package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/joshelser/opscenter-autoscaler/scaler"
	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// CSV column headers for recommendation output.
var recommendationColumns = []string{
	"partition_key", "next_warehouse_size", "warehouse_size",
	"query_text", "database_name", "schema_name",
	"reward", "state", "action", "phase",
}

// WriteRecommendations writes every record of every trace, in order.
// next_warehouse_size uses the short size alias ("XS", "2XL"); null sizes are
// written as empty fields.
func WriteRecommendations(w io.Writer, traces []*trace.PartitionTrace) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(recommendationColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, t := range traces {
		for i, r := range t.Records() {
			row := []string{
				t.Partition,
				sizeAlias(r.RecommendedSize),
				deref(r.CurrentSize),
				r.QueryText,
				r.DatabaseName,
				r.SchemaName,
				strconv.FormatFloat(r.Reward, 'f', -1, 64),
				strconv.Itoa(r.State),
				strconv.Itoa(r.Action),
				string(r.Phase),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing CSV row %d of partition %q: %w", i, t.Partition, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func sizeAlias(label *string) string {
	if label == nil {
		return ""
	}
	size, err := scaler.ParseSize(*label)
	if err != nil {
		return *label
	}
	return size.Alias()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
