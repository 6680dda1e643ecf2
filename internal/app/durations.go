package app

import (
	"time"

	"pomodoro/internal/settings"
	"pomodoro/internal/timer"
)

// KindFor maps a timer mode to the setting holding its length.
func KindFor(mode timer.Mode) settings.Kind {
	switch mode {
	case timer.ShortBreak:
		return settings.ShortBreak
	case timer.LongBreak:
		return settings.LongBreak
	default:
		return settings.Focus
	}
}

// TimerDurations reads the engine's durations from the settings store on
// every call, so a changed setting applies to the next countdown.
func TimerDurations(store *settings.Store) timer.Durations {
	return timer.DurationsFunc(func(mode timer.Mode) time.Duration {
		return store.Snapshot().Duration(KindFor(mode))
	})
}
