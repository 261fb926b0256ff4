package trace

// Termination explains why a partition stopped before exhausting its rows.
type Termination string

const (
	// TerminationNone means every input row was processed.
	TerminationNone Termination = ""
	// TerminationUnknownSize means a row carried an unrecognized size label.
	TerminationUnknownSize Termination = "unknown-size"
	// TerminationMalformed means a row could not be parsed.
	TerminationMalformed Termination = "malformed-observation"
	// TerminationCircuitBreaker means the restart procedure stalled on Hold.
	TerminationCircuitBreaker Termination = "circuit-breaker"
	// TerminationNoRecovery means the restart procedure ran out of history.
	TerminationNoRecovery Termination = "no-recovery"
)

// PartitionTrace collects the records of one partition in append order.
// Records are immutable once appended.
type PartitionTrace struct {
	Partition   string
	Termination Termination
	records     []Record
}

// NewPartitionTrace creates a trace ready for recording.
func NewPartitionTrace(partition string) *PartitionTrace {
	return &PartitionTrace{
		Partition: partition,
		records:   make([]Record, 0),
	}
}

// Append adds a record at the end of the trace.
func (t *PartitionTrace) Append(r Record) {
	t.records = append(t.records, r)
}

// Len returns the number of records.
func (t *PartitionTrace) Len() int {
	return len(t.records)
}

// Records returns a copy of the records in append order.
func (t *PartitionTrace) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Last returns the most recent record, or false for an empty trace.
func (t *PartitionTrace) Last() (Record, bool) {
	if len(t.records) == 0 {
		return Record{}, false
	}
	return t.records[len(t.records)-1], true
}
