package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) Time {
	var interval time.Duration
	if cfg.FramesPerSecond == 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	delay := cfg.EventPollDelay
	if delay <= 0 {
		delay = 1
	}

	return Time{
		start:          time.Now(),
		fps:            cfg.FramesPerSecond,
		fpsTicker:      time.NewTicker(interval),
		eventPollDelay: delay,
		eventTicker:    time.NewTicker(time.Duration(delay) * time.Millisecond),
	}
}

// Time contains all the time services and tickers
type Time struct {
	start time.Time

	fps       int
	fpsTicker *time.Ticker

	eventPollDelay int
	eventTicker    *time.Ticker
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// EventPollDelay gets the event loop interval
func (t *Time) EventPollDelay() time.Duration {
	return time.Duration(t.eventPollDelay) * time.Millisecond
}

// EventTicker gets the initialized event ticker for the event loop
func (t *Time) EventTicker() *time.Ticker {
	return t.eventTicker
}

// Elapsed returns the time since the service was created in seconds,
// suitable for animation uniforms.
func (t *Time) Elapsed() float32 {
	return float32(time.Since(t.start).Seconds())
}

// Stop stops the tickers
func (t *Time) Stop() {
	t.fpsTicker.Stop()
	t.eventTicker.Stop()
}
