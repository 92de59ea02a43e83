// Package store is the key/value adapter behind every record collection.
//
// Each collection lives under one top-level key and is always read and
// written whole. Collections serialises read-modify-write cycles per key
// inside a process; separate processes sharing one database still race at
// collection granularity and the last writer wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Collection keys.
const (
	KeyUsers       = "users"
	KeyAttendance  = "attendance"
	KeyTasks       = "tasks"
	KeyDepartments = "departments"
	KeyCustomers   = "customers"
	KeyNotices     = "notices"
)

// AllKeys lists every collection key in a stable order.
var AllKeys = []string{KeyUsers, KeyAttendance, KeyTasks, KeyDepartments, KeyCustomers, KeyNotices}

// ErrSkipWrite is returned by an Update mutation that decided to change nothing.
var ErrSkipWrite = errors.New("store: nothing to write")

// Store is the opaque get/set-by-key service.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by stores that can report liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Collections struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCollections(s Store) *Collections {
	return &Collections{
		store: s,
		locks: make(map[string]*sync.Mutex),
	}
}

func (c *Collections) lockFor(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// Exists reports whether key has ever been written.
func (c *Collections) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := c.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return found, nil
}

// Load decodes the collection stored under key into dest. A missing key
// leaves dest untouched.
func (c *Collections) Load(ctx context.Context, key string, dest any) error {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Save encodes v and writes it under key, replacing the previous value.
func (c *Collections) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Update runs one read-modify-write cycle on key while holding its lock.
// mutate edits dest in place; returning ErrSkipWrite leaves the stored value alone.
func (c *Collections) Update(ctx context.Context, key string, dest any, mutate func() error) error {
	l := c.lockFor(key)
	l.Lock()
	defer l.Unlock()

	if err := c.Load(ctx, key, dest); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		if errors.Is(err, ErrSkipWrite) {
			return nil
		}
		return err
	}
	return c.Save(ctx, key, dest)
}

// Read loads the collection under key as a T.
func Read[T any](ctx context.Context, c *Collections, key string) (T, error) {
	var v T
	err := c.Load(ctx, key, &v)
	return v, err
}

// Mutate is the typed form of Collections.Update.
func Mutate[T any](ctx context.Context, c *Collections, key string, fn func(v *T) error) error {
	var v T
	return c.Update(ctx, key, &v, func() error { return fn(&v) })
}

// Init writes v under key only when the key has never been written. It
// reports whether it wrote.
func (c *Collections) Init(ctx context.Context, key string, v any) (bool, error) {
	l := c.lockFor(key)
	l.Lock()
	defer l.Unlock()

	found, err := c.Exists(ctx, key)
	if err != nil || found {
		return false, err
	}
	if err := c.Save(ctx, key, v); err != nil {
		return false, err
	}
	return true, nil
}
