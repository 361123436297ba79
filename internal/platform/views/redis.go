// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/springfield/internal/platform/constants"
)

// RedisCounters keeps pending views in one Redis hash per entity kind.
type RedisCounters struct {
	client *redis.Client
	key    string
}

// NewRedisCounters creates the counters for one kind ("episode", "news").
func NewRedisCounters(client *redis.Client, kind string) *RedisCounters {
	return &RedisCounters{client: client, key: constants.RedisPrefixViews + kind}
}

// Incr implements [Counters] with HINCRBY.
func (counters *RedisCounters) Incr(context context.Context, id string) error {
	return counters.client.HIncrBy(context, counters.key, id, 1).Err()
}

// drainScript swaps the hash out and returns it in one round-trip, so views
// recorded during the flush land in a fresh hash.
var drainScript = redis.NewScript(`
local values = redis.call('HGETALL', KEYS[1])
redis.call('DEL', KEYS[1])
return values
`)

// Drain implements [Counters].
func (counters *RedisCounters) Drain(context context.Context) (map[string]int64, error) {
	raw, err := drainScript.Run(context, counters.client, []string{counters.key}).StringSlice()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("views: drain %s: %w", counters.key, err)
	}

	pending := make(map[string]int64, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		delta, err := strconv.ParseInt(raw[i+1], 10, 64)
		if err != nil {
			continue
		}
		pending[raw[i]] = delta
	}
	return pending, nil
}
