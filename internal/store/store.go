// Package store is the string-keyed persistence layer every other component
// reads and writes through. Values are JSON documents encoded as strings.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("store: key not found")

// Tx is the read/write surface shared by a store and its transactions.
type Tx interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is a Tx whose Update commits every write made by fn atomically, or
// none of them when fn or the commit fails. Reads inside fn observe fn's own
// writes.
type Store interface {
	Tx
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// GetJSON decodes the value stored under key into v. It reports false with a
// nil error when the key is absent.
func GetJSON(ctx context.Context, tx Tx, key string, v any) (bool, error) {
	raw, err := tx.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, tx Tx, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Set(ctx, key, string(raw))
}
