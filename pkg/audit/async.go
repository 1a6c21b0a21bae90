package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions configures batching and buffering for the async writer.
type AsyncOptions struct {
	BufferSize     int           // max queued writes before falling back to sync
	BatchSize      int           // target events per batch
	BatchTimeout   time.Duration // max wait before flushing a partial batch
	StorageTimeout time.Duration // per-batch storage deadline
}

// AsyncWriter batches events before handing them to a BatchStorage.
// It implements Storage, so a Logger can use it transparently.
type AsyncWriter struct {
	storage BatchStorage
	queue   chan pendingWrite
	done    chan struct{}
	wg      sync.WaitGroup
	options AsyncOptions
}

type pendingWrite struct {
	events []Event
	result chan error
}

// NewAsyncWriter starts a background worker collecting events into batches.
// The returned close function flushes the queue and must be called during
// shutdown.
func NewAsyncWriter(storage BatchStorage, opts AsyncOptions) (*AsyncWriter, func(context.Context) error) {
	if storage == nil {
		panic("audit: batch storage cannot be nil")
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	aw := &AsyncWriter{
		storage: storage,
		queue:   make(chan pendingWrite, opts.BufferSize),
		done:    make(chan struct{}),
		options: opts,
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store implements Storage. When the buffer is full the write falls back
// to a synchronous batch of one, trading latency for completeness.
func (aw *AsyncWriter) Store(ctx context.Context, event Event) error {
	result := make(chan error, 1)

	select {
	case aw.queue <- pendingWrite{events: []Event{event}, result: result}:
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-aw.done:
		return ErrStorageNotAvailable
	case <-ctx.Done():
		return ctx.Err()
	default:
		return aw.storage.StoreBatch(ctx, []Event{event})
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	events := make([]Event, 0, aw.options.BatchSize)
	results := make([]chan error, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(events) == 0 {
			return
		}

		// Storage runs on its own deadline so a cancelled request context
		// cannot abort a batch that other callers are waiting on.
		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		err := aw.storage.StoreBatch(ctx, events)
		cancel()

		for _, result := range results {
			select {
			case result <- err:
			default:
			}
		}

		events = events[:0]
		results = results[:0]
	}

	for {
		select {
		case write := <-aw.queue:
			events = append(events, write.events...)
			results = append(results, write.result)
			if len(events) >= aw.options.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-aw.done:
			close(aw.queue)
			for write := range aw.queue {
				events = append(events, write.events...)
				results = append(results, write.result)
			}
			flush()
			return
		}
	}
}

// Close drains the queue and stops the worker. The context bounds the
// shutdown; on expiry unflushed events are lost.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	close(aw.done)

	finished := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
