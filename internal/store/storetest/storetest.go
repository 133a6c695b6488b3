// Package storetest provides stores for exercising concurrent callers.
package storetest

import (
	"context"
	"time"

	"github.com/farellandr/mealpass/internal/store"
)

// Unserialized reads live data inside Update and applies the buffered writes
// afterwards without excluding other transactions, like the redis backend.
type Unserialized struct {
	*store.MemoryStore
	// Gap is slept between running fn and applying its writes.
	Gap time.Duration
}

func NewUnserialized(gap time.Duration) *Unserialized {
	return &Unserialized{MemoryStore: store.NewMemoryStore(), Gap: gap}
}

type overlay struct {
	base   store.Tx
	values map[string]*string
	order  []string
}

func (o *overlay) Get(ctx context.Context, key string) (string, error) {
	if v, ok := o.values[key]; ok {
		if v == nil {
			return "", store.ErrNotFound
		}
		return *v, nil
	}
	return o.base.Get(ctx, key)
}

func (o *overlay) Set(_ context.Context, key, value string) error {
	o.put(key, &value)
	return nil
}

func (o *overlay) Remove(_ context.Context, key string) error {
	o.put(key, nil)
	return nil
}

func (o *overlay) put(key string, v *string) {
	if _, ok := o.values[key]; !ok {
		o.order = append(o.order, key)
	}
	o.values[key] = v
}

func (u *Unserialized) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	tx := &overlay{base: u.MemoryStore, values: make(map[string]*string)}
	if err := fn(tx); err != nil {
		return err
	}
	time.Sleep(u.Gap)
	for _, k := range tx.order {
		v := tx.values[k]
		if v == nil {
			if err := u.MemoryStore.Remove(ctx, k); err != nil {
				return err
			}
			continue
		}
		if err := u.MemoryStore.Set(ctx, k, *v); err != nil {
			return err
		}
	}
	return nil
}
