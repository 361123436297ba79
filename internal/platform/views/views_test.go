// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package views_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/views"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSink struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func (sink *fakeSink) IncrementViews(_ context.Context, id string, delta int64) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.fail {
		return errors.New("store down")
	}
	if sink.counts == nil {
		sink.counts = make(map[string]int64)
	}
	sink.counts[id] += delta
	return nil
}

type fakeCounters struct {
	mu      sync.Mutex
	pending map[string]int64
	down    bool
}

func (counters *fakeCounters) Incr(_ context.Context, id string) error {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	if counters.down {
		return errors.New("redis down")
	}
	if counters.pending == nil {
		counters.pending = make(map[string]int64)
	}
	counters.pending[id]++
	return nil
}

func (counters *fakeCounters) Drain(context.Context) (map[string]int64, error) {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	out := counters.pending
	counters.pending = nil
	return out, nil
}

func TestDirect_SwallowsErrors(t *testing.T) {
	sink := &fakeSink{}
	recorder := views.NewDirect("episode", sink, discard)

	recorder.Record(context.Background(), "e1")
	recorder.Record(context.Background(), "e1")
	assert.Equal(t, int64(2), sink.counts["e1"])

	sink.fail = true
	assert.NotPanics(t, func() { recorder.Record(context.Background(), "e1") })
}

/*
TestBuffered_Flush verifies increments are batched per entity.
*/
func TestBuffered_Flush(t *testing.T) {
	sink := &fakeSink{}
	counters := &fakeCounters{}
	recorder := views.NewBuffered("news", counters, sink, discard)

	for range 3 {
		recorder.Record(context.Background(), "n1")
	}
	recorder.Record(context.Background(), "n2")
	assert.Empty(t, sink.counts)

	applied, err := recorder.Flush(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, applied)
	assert.Equal(t, map[string]int64{"n1": 3, "n2": 1}, sink.counts)

	applied, err = recorder.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestBuffered_FallsBackWhenCountersAreDown(t *testing.T) {
	sink := &fakeSink{}
	recorder := views.NewBuffered("episode", &fakeCounters{down: true}, sink, discard)

	recorder.Record(context.Background(), "e1")
	assert.Equal(t, int64(1), sink.counts["e1"])
}
