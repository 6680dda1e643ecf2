package timer

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the kind of countdown the engine is running.
type Mode string

const (
	Focus      Mode = "focus"
	ShortBreak Mode = "short_break"
	LongBreak  Mode = "long_break"
)

// LongBreakEvery is how many completed focus sessions earn a long break.
const LongBreakEvery = 4

var Modes = []Mode{Focus, ShortBreak, LongBreak}

func (m Mode) Valid() bool {
	return m == Focus || m == ShortBreak || m == LongBreak
}

func (m Mode) Label() string {
	switch m {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Pomodoro"
	}
}

// ParseMode accepts the mode names plus a few command line spellings.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "focus", "pomodoro":
		return Focus, nil
	case "short_break", "short-break", "short", "shortbreak":
		return ShortBreak, nil
	case "long_break", "long-break", "long", "longbreak":
		return LongBreak, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be one of focus, short_break, long_break", raw)
}

// Durations supplies the configured length of each mode.
type Durations interface {
	Duration(mode Mode) time.Duration
}

// DurationsFunc adapts a function to Durations.
type DurationsFunc func(mode Mode) time.Duration

func (f DurationsFunc) Duration(mode Mode) time.Duration {
	return f(mode)
}

// FixedDurations is a Durations with constant values.
type FixedDurations struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

func (d FixedDurations) Duration(mode Mode) time.Duration {
	switch mode {
	case ShortBreak:
		return d.ShortBreak
	case LongBreak:
		return d.LongBreak
	default:
		return d.Focus
	}
}

// State is a copy of the engine state.
type State struct {
	Mode           Mode
	Remaining      int
	Running        bool
	CompletedFocus int
}

// Clock renders Remaining as MM:SS.
func (s State) Clock() string {
	return FormatClock(s.Remaining)
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not capped
// at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
