package app_test

import (
	"context"
	"encoding/json"
)

// ---- cache fake: stores JSON like the Redis adapter ----

type fakeCache struct {
	store map[string][]byte
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels++
	delete(c.store, key)
	return nil
}

// ---- helpers ----

func ptr[T any](v T) *T { return &v }
