// Package settings holds the three timer durations, in minutes.
package settings

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"pomodoro/internal/kv"
	"pomodoro/internal/observe"
)

// Kind names one of the three configurable durations.
type Kind int

const (
	Focus Kind = iota
	ShortBreak
	LongBreak
)

const (
	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
)

var ErrInvalidDuration = errors.New("duration must be a positive number")

// Key is the persistence key of k.
func (k Kind) Key() string {
	switch k {
	case ShortBreak:
		return "shortBreakDuration"
	case LongBreak:
		return "longBreakDuration"
	default:
		return "pomodoroDuration"
	}
}

// Label is the human name of k.
func (k Kind) Label() string {
	switch k {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Pomodoro"
	}
}

func (k Kind) defaultMinutes() int {
	switch k {
	case ShortBreak:
		return DefaultShortBreakMinutes
	case LongBreak:
		return DefaultLongBreakMinutes
	default:
		return DefaultFocusMinutes
	}
}

// ParseKind accepts the kind names used on the command line.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "focus", "pomodoro":
		return Focus, nil
	case "short", "short-break", "shortbreak":
		return ShortBreak, nil
	case "long", "long-break", "longbreak":
		return LongBreak, nil
	}
	return Focus, fmt.Errorf("unknown setting %q (want focus, short or long)", raw)
}

// Persistence stores integer settings under string keys. GetInt returns
// fallback together with any error.
type Persistence interface {
	GetInt(key string, fallback int) (int, error)
	SetInt(key string, value int) error
}

// KVPersistence keeps settings as decimal strings in a kv.Store.
type KVPersistence struct {
	Store kv.Store
}

// GetInt returns fallback when the key is missing or does not hold a
// positive integer. Only a missing key is not an error.
func (p KVPersistence) GetInt(key string, fallback int) (int, error) {
	raw, ok, err := p.Store.Get(key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback, fmt.Errorf("%q is not a positive number", raw)
	}
	return value, nil
}

func (p KVPersistence) SetInt(key string, value int) error {
	return p.Store.Set(key, strconv.Itoa(value))
}

// Snapshot is a consistent copy of all three durations.
type Snapshot struct {
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
}

func (s Snapshot) Minutes(kind Kind) int {
	switch kind {
	case ShortBreak:
		return s.ShortBreakMinutes
	case LongBreak:
		return s.LongBreakMinutes
	default:
		return s.FocusMinutes
	}
}

func (s Snapshot) Duration(kind Kind) time.Duration {
	return time.Duration(s.Minutes(kind)) * time.Minute
}

type Store struct {
	mu      sync.Mutex
	persist Persistence
	values  [3]int
	changed observe.Subject[Snapshot]
	logger  *log.Logger
}

// New loads the current values from persist.
func New(persist Persistence, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{persist: persist, logger: logger}
	for _, kind := range []Kind{Focus, ShortBreak, LongBreak} {
		value, err := persist.GetInt(kind.Key(), kind.defaultMinutes())
		if err != nil {
			logger.Printf("settings: load %s: %v", kind.Key(), err)
		}
		s.values[kind] = value
	}
	return s
}

func (s *Store) Get(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[kind]
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		FocusMinutes:      s.values[Focus],
		ShortBreakMinutes: s.values[ShortBreak],
		LongBreakMinutes:  s.values[LongBreak],
	}
}

// Set validates and stores minutes for kind. An invalid or unpersistable
// value leaves the previous one in place.
func (s *Store) Set(kind Kind, minutes int) error {
	if minutes <= 0 {
		s.logger.Printf("settings: invalid %s duration: %d", strings.ToLower(kind.Label()), minutes)
		return fmt.Errorf("%s %w", kind.Label(), ErrInvalidDuration)
	}

	s.mu.Lock()
	if err := s.persist.SetInt(kind.Key(), minutes); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save %s duration: %w", kind.Label(), err)
	}
	s.values[kind] = minutes
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed.Notify(snapshot)
	return nil
}

// SetText parses user input before calling Set.
func (s *Store) SetText(kind Kind, input string) error {
	minutes, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("%s %w", kind.Label(), ErrInvalidDuration)
	}
	return s.Set(kind, minutes)
}

func (s *Store) SetFocus(minutes int) error      { return s.Set(Focus, minutes) }
func (s *Store) SetShortBreak(minutes int) error { return s.Set(ShortBreak, minutes) }
func (s *Store) SetLongBreak(minutes int) error  { return s.Set(LongBreak, minutes) }

// Subscribe calls fn after every accepted change.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.changed.Subscribe(fn)
}
