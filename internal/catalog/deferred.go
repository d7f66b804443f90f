package catalog

import "log/slog"

// pendingWrite is one cache write queued for after result delivery
type pendingWrite struct {
	key   string
	apply func() error
}

// DeferredWriter batches cache writes so their latency never lands on the
// read path. This is an ordering primitive, not a concurrency primitive:
// the consumer calls Flush once it has emitted its own result, and every
// write runs synchronously at that point. Each write is an idempotent full
// replacement, so re-running a batch after a retry is safe.
type DeferredWriter struct {
	logger  *slog.Logger
	pending []pendingWrite
}

// NewDeferredWriter creates an empty deferred write batch
func NewDeferredWriter(logger *slog.Logger) *DeferredWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeferredWriter{logger: logger}
}

// Enqueue adds a write to the batch. The key is for logging only; the
// closure carries the actual typed Put.
func (d *DeferredWriter) Enqueue(key string, apply func() error) {
	d.pending = append(d.pending, pendingWrite{key: key, apply: apply})
}

// Len returns the number of queued writes
func (d *DeferredWriter) Len() int { return len(d.pending) }

// Flush runs every queued write in order and empties the batch. Writes are
// isolated: one failure is logged and the rest still run. Nothing is ever
// raised to the caller - by the time Flush runs, the consumer already has
// its result.
func (d *DeferredWriter) Flush() {
	if len(d.pending) == 0 {
		return
	}

	failed := 0
	for _, w := range d.pending {
		if err := w.apply(); err != nil {
			failed++
			d.logger.Warn("deferred cache write failed", "key", w.key, "error", err)
		}
	}

	d.logger.Debug("flushed deferred writes", "count", len(d.pending), "failed", failed)
	d.pending = nil
}
