package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"farmconnect/pkg/infrastructure/storage"
)

const DefaultTimeout = 5 * time.Second

// collection is one slot holding a JSON array. Every mutation is a locked
// load, change, save cycle over the whole slot.
type collection[T any] struct {
	mu      sync.Mutex
	store   storage.Store
	slot    string
	timeout time.Duration
}

func newCollection[T any](store storage.Store, slot string, timeout time.Duration) *collection[T] {
	return &collection[T]{store: store, slot: slot, timeout: timeout}
}

func (c *collection[T]) list() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *collection[T]) find(match func(T) bool, notFound error) (*T, error) {
	items, err := c.list()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(items[i]) {
			return &items[i], nil
		}
	}
	return nil, notFound
}

func (c *collection[T]) update(change func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	items, err = change(items)
	if err != nil {
		return err
	}
	return c.save(items)
}

// replace swaps the first match for item, or fails with notFound.
func (c *collection[T]) replace(item T, match func(T) bool, check func(stored T) error, notFound error) error {
	return c.update(func(items []T) ([]T, error) {
		for i := range items {
			if !match(items[i]) {
				continue
			}
			if check != nil {
				if err := check(items[i]); err != nil {
					return nil, err
				}
			}
			items[i] = item
			return items, nil
		}
		return nil, notFound
	})
}

func (c *collection[T]) load() ([]T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.store.Get(ctx, c.slot)
	if errors.Is(err, storage.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", c.slot)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(err, "decode %s", c.slot)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *collection[T]) save(items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "encode %s", c.slot)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return errors.Wrapf(c.store.Set(ctx, c.slot, data), "save %s", c.slot)
}

// sequences hands out ids that are never reused, even after the entity with
// the highest id is deleted.
type sequences struct {
	mu      sync.Mutex
	store   storage.Store
	timeout time.Duration
}

func (s *sequences) next(name string, floor int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	counters := map[string]int64{}
	data, err := s.store.Get(ctx, storage.SlotSequences)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &counters); err != nil {
			return 0, errors.Wrap(err, "decode sequences")
		}
	case !errors.Is(err, storage.ErrNotFound):
		return 0, errors.Wrap(err, "load sequences")
	}

	id := counters[name]
	if floor > id {
		id = floor
	}
	id++
	counters[name] = id

	data, err = json.Marshal(counters)
	if err != nil {
		return 0, errors.Wrap(err, "encode sequences")
	}
	if err := s.store.Set(ctx, storage.SlotSequences, data); err != nil {
		return 0, errors.Wrap(err, "save sequences")
	}
	return id, nil
}

// nextID draws from the named sequence, never below the highest stored id.
func nextID[T any](seq *sequences, c *collection[T], idOf func(T) int64) (int64, error) {
	items, err := c.list()
	if err != nil {
		return 0, err
	}
	var highest int64
	for _, item := range items {
		if id := idOf(item); id > highest {
			highest = id
		}
	}
	return seq.next(c.slot, highest)
}
