package approx

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// memo computes every key once, also when asked from several goroutines at
// the same time.
type memo[V any] struct {
	mu     sync.Mutex
	values map[string]V
	group  singleflight.Group
}

func (m *memo[V]) lookup(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memo[V]) get(key string, compute func() (V, error)) (V, error) {
	if v, ok := m.lookup(key); ok {
		return v, nil
	}
	out, err, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.lookup(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		if m.values == nil {
			m.values = make(map[string]V)
		}
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return out.(V), nil
}

func (m *memo[V]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
