// Package store provides in-memory payroll store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements payroll.EntryStore and payroll.RateStore.
type Memory struct {
	mu      sync.RWMutex
	entries []payroll.TimeEntry // sorted by PunchTime, then ID
	nextID  int64
	rate    *decimal.Decimal

	// Now stamps CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

var (
	_ payroll.EntryStore = (*Memory)(nil)
	_ payroll.RateStore  = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{nextID: 1, Now: time.Now}
}

// InsertEntry appends a punch. Append-only.
func (m *Memory) InsertEntry(_ context.Context, punchTime time.Time, entryType payroll.EntryType) (payroll.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := payroll.TimeEntry{
		ID:        m.nextID,
		PunchTime: punchTime.UTC(),
		Type:      entryType,
		CreatedAt: m.Now().UTC(),
	}
	m.nextID++

	// Binary search for insertion point; equal punch times keep insertion order
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].PunchTime.After(e.PunchTime)
	})
	m.entries = append(m.entries, payroll.TimeEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e
	return e, nil
}

// ListEntries returns entries in [start, end] in punch order.
func (m *Memory) ListEntries(_ context.Context, start, end time.Time) ([]payroll.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.TimeEntry
	for _, e := range m.entries {
		if !e.PunchTime.Before(start) && !e.PunchTime.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) CurrentRate(_ context.Context) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rate == nil {
		return payroll.DefaultHourlyRate, nil
	}
	return *m.rate, nil
}

func (m *Memory) UpdateRate(_ context.Context, rate decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = &rate
	return nil
}
