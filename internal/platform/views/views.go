// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package views records best-effort view counters.

Detail reads of episodes and news increment a counter. A [Recorder] never
fails the read: [Direct] increments the store immediately, [Buffered]
accumulates increments in a Redis hash and flushes them to the store in
batches. Increments lost to a crash or a store error are acceptable.
*/
package views

import (
	"context"
	"log/slog"
	"time"
)

// Sink applies accumulated increments to the entity store.
type Sink interface {
	IncrementViews(context context.Context, id string, delta int64) error
}

// Recorder counts one view of an entity.
type Recorder interface {
	Record(context context.Context, id string)
}

// # Direct

// Direct forwards every view to the sink.
type Direct struct {
	sink   Sink
	logger *slog.Logger
	kind   string
}

// NewDirect creates a recorder writing straight to the store.
func NewDirect(kind string, sink Sink, logger *slog.Logger) *Direct {
	return &Direct{sink: sink, logger: logger, kind: kind}
}

// Record implements [Recorder].
func (recorder *Direct) Record(context context.Context, id string) {
	if err := recorder.sink.IncrementViews(context, id, 1); err != nil {
		recorder.logger.WarnContext(context, "view_increment_failed",
			slog.String("kind", recorder.kind),
			slog.String("id", id),
			slog.Any("error", err),
		)
	}
}

// # Buffered

// Counters is the pending-increment storage behind [Buffered].
type Counters interface {
	// Incr adds one to the pending count of id.
	Incr(context context.Context, id string) error

	// Drain atomically takes every pending count.
	Drain(context context.Context) (map[string]int64, error)
}

// Buffered accumulates views in [Counters] and flushes them periodically.
type Buffered struct {
	counters Counters
	fallback *Direct
	sink     Sink
	logger   *slog.Logger
	kind     string
}

// NewBuffered creates a buffered recorder. When the counters are unreachable
// a view falls back to a direct store increment.
func NewBuffered(kind string, counters Counters, sink Sink, logger *slog.Logger) *Buffered {
	return &Buffered{
		counters: counters,
		fallback: NewDirect(kind, sink, logger),
		sink:     sink,
		logger:   logger,
		kind:     kind,
	}
}

// Record implements [Recorder].
func (recorder *Buffered) Record(context context.Context, id string) {
	if err := recorder.counters.Incr(context, id); err != nil {
		recorder.logger.WarnContext(context, "view_buffer_failed",
			slog.String("kind", recorder.kind),
			slog.Any("error", err),
		)
		recorder.fallback.Record(context, id)
	}
}

/*
Flush drains the pending counts into the sink.

Returns:
  - int: the number of entities updated
  - error: a drain failure; per-entity sink errors are logged and skipped
*/
func (recorder *Buffered) Flush(context context.Context) (int, error) {
	pending, err := recorder.counters.Drain(context)
	if err != nil {
		return 0, err
	}

	applied := 0
	for id, delta := range pending {
		if delta <= 0 {
			continue
		}
		if err := recorder.sink.IncrementViews(context, id, delta); err != nil {
			recorder.logger.WarnContext(context, "view_flush_failed",
				slog.String("kind", recorder.kind),
				slog.String("id", id),
				slog.Any("error", err),
			)
			continue
		}
		applied++
	}
	return applied, nil
}

// Run flushes on every tick until the context is cancelled, then flushes once
// more with a short grace period.
func (recorder *Buffered) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			recorder.flushAndLog(ctx)
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			recorder.flushAndLog(final)
			cancel()
			return
		}
	}
}

func (recorder *Buffered) flushAndLog(context context.Context) {
	applied, err := recorder.Flush(context)
	if err != nil {
		recorder.logger.WarnContext(context, "view_drain_failed", slog.String("kind", recorder.kind), slog.Any("error", err))
		return
	}
	if applied > 0 {
		recorder.logger.DebugContext(context, "views_flushed", slog.String("kind", recorder.kind), slog.Int("entities", applied))
	}
}
