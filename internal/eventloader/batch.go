package eventloader

// Batch accumulates classified records for one event type as a flat list of
// bind parameters. len(values) is always count*recordWidth.
type Batch struct {
	values []any
	count  int
}

func newBatch(capacity int) *Batch {
	return &Batch{values: make([]any, 0, capacity*recordWidth)}
}

// Append adds one record to the batch.
func (b *Batch) Append(rec Record) {
	for _, v := range rec {
		b.values = append(b.values, v)
	}
	b.count++
}

// Len returns the number of records held.
func (b *Batch) Len() int { return b.count }

// IsEmpty reports whether the batch holds no records.
func (b *Batch) IsEmpty() bool { return b.count == 0 }

// Drain returns the flattened values and the record count, then resets the
// batch. The returned slice is not reused by later appends.
func (b *Batch) Drain() ([]any, int) {
	values, count := b.values, b.count
	b.values = make([]any, 0, cap(values))
	b.count = 0
	return values, count
}

// batchSet holds one batch per event type for a single load run.
type batchSet [len(EventTypes)]*Batch

func newBatchSet(capacity int) *batchSet {
	var s batchSet
	for _, et := range EventTypes {
		s[et] = newBatch(capacity)
	}
	return &s
}

func (s *batchSet) get(et EventType) *Batch { return s[et] }
