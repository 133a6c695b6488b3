package store

import "context"

type write struct {
	key    string
	value  string
	remove bool
}

// bufferedTx collects writes in memory and serves reads from them before
// falling through to the underlying store. Backends without interactive
// transactions flush the collected writes in a single atomic batch.
type bufferedTx struct {
	base   Tx
	writes map[string]*write
	order  []string
}

func newBufferedTx(base Tx) *bufferedTx {
	return &bufferedTx{base: base, writes: make(map[string]*write)}
}

func (t *bufferedTx) Get(ctx context.Context, key string) (string, error) {
	if w, ok := t.writes[key]; ok {
		if w.remove {
			return "", ErrNotFound
		}
		return w.value, nil
	}
	return t.base.Get(ctx, key)
}

func (t *bufferedTx) Set(_ context.Context, key, value string) error {
	t.record(&write{key: key, value: value})
	return nil
}

func (t *bufferedTx) Remove(_ context.Context, key string) error {
	t.record(&write{key: key, remove: true})
	return nil
}

func (t *bufferedTx) record(w *write) {
	if _, ok := t.writes[w.key]; !ok {
		t.order = append(t.order, w.key)
	}
	t.writes[w.key] = w
}

// pending returns the final write per key in first-touched order.
func (t *bufferedTx) pending() []*write {
	out := make([]*write, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.writes[k])
	}
	return out
}
