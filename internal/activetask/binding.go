// Package activetask tracks the single task credited with completed focus
// sessions.
package activetask

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"pomodoro/internal/kv"
	"pomodoro/internal/observe"
)

// StorageKey is where the bound task id is persisted.
const StorageKey = "activeTaskId"

// Persistence remembers the binding across restarts. Get reports a
// missing id as ok == false with a nil error.
type Persistence interface {
	Get() (int64, bool, error)
	Set(id int64) error
	Clear() error
}

// KVPersistence stores the id as a decimal string under StorageKey.
type KVPersistence struct {
	Store kv.Store
}

func (p KVPersistence) Get() (int64, bool, error) {
	raw, ok, err := p.Store.Get(StorageKey)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s %q: %w", StorageKey, raw, err)
	}
	return id, true, nil
}

func (p KVPersistence) Set(id int64) error {
	return p.Store.Set(StorageKey, strconv.FormatInt(id, 10))
}

func (p KVPersistence) Clear() error {
	return p.Store.Remove(StorageKey)
}

// Change is delivered to subscribers when the binding changes. Bound is
// false when the binding was cleared.
type Change struct {
	ID    int64
	Bound bool
}

// Binding holds zero or one task id.
type Binding struct {
	mu      sync.Mutex
	id      int64
	bound   bool
	persist Persistence
	logger  *log.Logger
	changed observe.Subject[Change]
}

// New returns an empty binding. Call Restore once the task list is known.
func New(persist Persistence, logger *log.Logger) *Binding {
	if logger == nil {
		logger = log.Default()
	}
	return &Binding{persist: persist, logger: logger}
}

// Current returns the bound id, if any.
func (b *Binding) Current() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id, b.bound
}

// Is reports whether id is the bound task.
func (b *Binding) Is(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound && b.id == id
}

// SetActive binds id, replacing any previous binding.
func (b *Binding) SetActive(id int64) {
	b.mu.Lock()
	if b.bound && b.id == id {
		b.mu.Unlock()
		return
	}
	b.id, b.bound = id, true
	if err := b.persist.Set(id); err != nil {
		b.logger.Printf("activetask: persist %d: %v", id, err)
	}
	b.mu.Unlock()

	b.changed.Notify(Change{ID: id, Bound: true})
}

// ClearActive clears the binding only while it still points at id.
func (b *Binding) ClearActive(id int64) bool {
	b.mu.Lock()
	if !b.bound || b.id != id {
		b.mu.Unlock()
		return false
	}
	b.clearLocked()
	b.mu.Unlock()

	b.changed.Notify(Change{})
	return true
}

// Clear drops whatever is bound.
func (b *Binding) Clear() {
	b.mu.Lock()
	if !b.bound {
		b.mu.Unlock()
		return
	}
	b.clearLocked()
	b.mu.Unlock()

	b.changed.Notify(Change{})
}

func (b *Binding) clearLocked() {
	b.id, b.bound = 0, false
	if err := b.persist.Clear(); err != nil {
		b.logger.Printf("activetask: clear: %v", err)
	}
}

// Restore binds the persisted id when exists reports that the task is
// still present. A stale id is dropped from persistence.
func (b *Binding) Restore(exists func(id int64) bool) bool {
	id, ok, err := b.persist.Get()
	if err != nil {
		b.logger.Printf("activetask: load: %v", err)
	}
	if !ok {
		return false
	}
	if !exists(id) {
		if err := b.persist.Clear(); err != nil {
			b.logger.Printf("activetask: clear stale %d: %v", id, err)
		}
		return false
	}
	b.SetActive(id)
	return true
}

// Subscribe calls fn after every change of the binding.
func (b *Binding) Subscribe(fn func(Change)) func() {
	return b.changed.Subscribe(fn)
}
