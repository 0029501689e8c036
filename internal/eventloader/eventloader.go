package eventloader

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/encoding"
)

// EventLoader streams campaign activity exports from S3 into their event tables.
//
// Each chunk of lines is flushed on its own, so a run that fails part way
// leaves earlier chunks committed. Loading the same export again after a
// failure duplicates those rows.
type EventLoader struct {
	DB         *sql.DB
	Logger     log.Logger
	Bucket     string
	S3Svc      s3iface.S3API
	Encoding   encoding.Encoding
	SkipHeader bool
	Clock      clockwork.Clock
}

// LoadStats summarises one load run.
type LoadStats struct {
	Chunks  int
	Lines   int
	Dropped int
	Loaded  [len(EventTypes)]int
}

// LoadEventFile loads the export stored under key and deletes it once every
// chunk has been inserted. The first failed insert is written to the
// migration log and aborts the run, leaving the export in place.
func (l *EventLoader) LoadEventFile(ctx context.Context, key string) (*LoadStats, error) {
	start := time.Now()
	stats := &LoadStats{}

	body, err := l.openSource(ctx, key)
	if err != nil {
		return stats, fmt.Errorf("open source %s: %w", key, err)
	}
	defer body.Close()

	enc := l.Encoding
	if enc == nil {
		if enc, err = SourceEncoding(""); err != nil {
			return stats, err
		}
	}
	lines := newLineReader(body, enc)
	if l.SkipHeader {
		if err := lines.skip(); err != nil {
			return stats, fmt.Errorf("source %s: %w", key, err)
		}
	}

	batches := newBatchSet(ChunkSize)
	for {
		first := lines.nextLine()
		chunk, err := lines.readChunk(ChunkSize)
		if err != nil {
			return stats, fmt.Errorf("source %s: %w", key, err)
		}
		if len(chunk) == 0 {
			break
		}
		stats.Chunks++
		stats.Lines += len(chunk)

		dropped, err := classifyLines(l.Logger, batches, chunk, first)
		stats.Dropped += dropped
		if err != nil {
			return stats, fmt.Errorf("source %s: %w", key, err)
		}

		if err := l.flush(ctx, batches, stats); err != nil {
			if auditErr := l.logFailure(ctx, key, err); auditErr != nil {
				level.Error(l.Logger).Log("msg", "failed to write migration log",
					"source_key", key,
					"err", auditErr,
					"cause", err)
			}
			return stats, fmt.Errorf("source %s: %w", key, err)
		}
	}

	l.deleteSource(ctx, key)

	level.Info(l.Logger).Log("msg", "source file loaded",
		"source_key", key,
		"elapsed_time", time.Since(start),
		"chunks", stats.Chunks,
		"lines", stats.Lines,
		"dropped", stats.Dropped,
		"sent", stats.Loaded[EventSent],
		"click", stats.Loaded[EventClick],
		"open", stats.Loaded[EventOpen],
		"unsubscribe", stats.Loaded[EventUnsubscribe])
	return stats, nil
}

// DB Actions  ------------------------

// Inserts every non-empty batch, stopping at the first failure.
func (l *EventLoader) flush(ctx context.Context, batches *batchSet, stats *LoadStats) error {
	for _, et := range EventTypes {
		b := batches.get(et)
		if b.IsEmpty() {
			continue
		}
		n, err := l.executeInsert(ctx, et, b)
		if err != nil {
			return err
		}
		stats.Loaded[et] += n
	}
	return nil
}

// Executes the bulk insert for one batch, leaving the batch empty.
func (l *EventLoader) executeInsert(ctx context.Context, et EventType, b *Batch) (int, error) {
	start := time.Now()
	records := b.Len()
	query, args, err := insertStatement(et, b)
	if err != nil {
		return 0, err
	}
	level.Debug(l.Logger).Log("msg", "built insert query", "table_name", et.Table(), "records", records)

	if _, err := l.DB.ExecContext(ctx, query, args...); err != nil {
		level.Error(l.Logger).Log("msg", "insert failure",
			"elapsed_time", time.Since(start),
			"table_name", et.Table(),
			"records", records,
			"err", err)
		return 0, fmt.Errorf("insert into %s: %w", et.Table(), err)
	}
	level.Info(l.Logger).Log("msg", "insert complete",
		"elapsed_time", time.Since(start),
		"table_name", et.Table(),
		"records", records)
	return records, nil
}

func (l *EventLoader) clock() clockwork.Clock {
	if l.Clock == nil {
		return clockwork.NewRealClock()
	}
	return l.Clock
}
