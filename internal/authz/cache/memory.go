package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory is an in-process Cache backed by ttlcache. It is the default when
// a single instance runs; use Redis when several instances share state.
type Memory struct {
	c      *ttlcache.Cache[string, []byte]
	closed atomic.Bool
}

// NewMemory starts the expiry loop. Call Close to stop it.
func NewMemory(capacity uint64) *Memory {
	opts := []ttlcache.Option[string, []byte]{
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, []byte](capacity))
	}

	c := ttlcache.New(opts...)
	go c.Start()

	return &Memory{c: c}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	if m.closed.Load() {
		return false, ErrClosed
	}
	item := m.c.Get(key)
	if item == nil {
		return false, nil
	}
	if err := decode(item.Value(), dst); err != nil {
		return false, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	b, err := encode(v)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.c.Delete(key)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.c.Stop()
	}
	return nil
}

// Len reports the number of live entries.
func (m *Memory) Len() int { return m.c.Len() }
