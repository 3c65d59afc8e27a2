package store

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"github.com/rickgao/pricing-board/internal/model"
)

// keyIndex maps an outer key to an inner map of current records.
// Inner maps are created on demand and never removed.
type keyIndex[K comparable, S cmp.Ordered] struct {
	mu    sync.RWMutex
	inner map[K]*innerMap[S]
}

type innerMap[S cmp.Ordered] struct {
	mu      sync.RWMutex
	entries map[S]model.Pricing
}

func newKeyIndex[K comparable, S cmp.Ordered]() *keyIndex[K, S] {
	return &keyIndex[K, S]{inner: make(map[K]*innerMap[S])}
}

// get returns the inner map for k, creating it when create is set.
func (ix *keyIndex[K, S]) get(k K, create bool) *innerMap[S] {
	ix.mu.RLock()
	m, ok := ix.inner[k]
	ix.mu.RUnlock()
	if ok || !create {
		return m
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if m, ok = ix.inner[k]; ok {
		return m
	}
	m = &innerMap[S]{entries: make(map[S]model.Pricing)}
	ix.inner[k] = m
	return m
}

// put stores p under (k, s) and returns the record it replaced.
func (ix *keyIndex[K, S]) put(k K, s S, p model.Pricing) (model.Pricing, bool) {
	m := ix.get(k, true)
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.entries[s]
	m.entries[s] = p
	return prev, ok
}

// removeIfEqual deletes (k, s) only while it still holds p.
func (ix *keyIndex[K, S]) removeIfEqual(k K, s S, p model.Pricing) bool {
	m := ix.get(k, false)
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.entries[s]
	if !ok || !cur.Equal(p) {
		return false
	}
	delete(m.entries, s)
	return true
}

// values returns a snapshot of k's records ordered by inner key.
func (ix *keyIndex[K, S]) values(k K) []model.Pricing {
	m := ix.get(k, false)
	if m == nil {
		return []model.Pricing{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Pricing, 0, len(m.entries))
	for _, s := range slices.Sorted(maps.Keys(m.entries)) {
		out = append(out, m.entries[s])
	}
	return out
}

// counts returns the number of non-empty outer keys and total records.
func (ix *keyIndex[K, S]) counts() (keys, records int) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, m := range ix.inner {
		m.mu.RLock()
		n := len(m.entries)
		m.mu.RUnlock()
		if n > 0 {
			keys++
			records += n
		}
	}
	return keys, records
}

// dateIndex groups current records by calendar date.
type dateIndex struct {
	mu      sync.Mutex
	buckets map[model.Date]map[model.PricingID]model.Pricing
}

func newDateIndex() *dateIndex {
	return &dateIndex{buckets: make(map[model.Date]map[model.PricingID]model.Pricing)}
}

func (d *dateIndex) add(p model.Pricing) {
	d.mu.Lock()
	defer d.mu.Unlock()

	date := p.Date()
	b, ok := d.buckets[date]
	if !ok {
		b = make(map[model.PricingID]model.Pricing)
		d.buckets[date] = b
	}
	b[*p.ID] = p
}

func (d *dateIndex) remove(p model.Pricing) {
	d.mu.Lock()
	defer d.mu.Unlock()

	date := p.Date()
	b, ok := d.buckets[date]
	if !ok {
		return
	}
	delete(b, *p.ID)
	if len(b) == 0 {
		delete(d.buckets, date)
	}
}

// takeBefore removes and returns every bucket dated strictly before cutoff.
func (d *dateIndex) takeBefore(cutoff model.Date) map[model.Date][]model.Pricing {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[model.Date][]model.Pricing)
	for date, b := range d.buckets {
		if !date.Before(cutoff) {
			continue
		}
		members := make([]model.Pricing, 0, len(b))
		for _, p := range b {
			members = append(members, p)
		}
		out[date] = members
		delete(d.buckets, date)
	}
	return out
}

func (d *dateIndex) dates() []model.Date {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]model.Date, 0, len(d.buckets))
	for date := range d.buckets {
		out = append(out, date)
	}
	slices.SortFunc(out, func(a, b model.Date) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
	return out
}

func (d *dateIndex) size() (buckets, records int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, b := range d.buckets {
		records += len(b)
	}
	return len(d.buckets), records
}
