// Package stamina implements the regenerating action resource: offline
// catch-up from wall-clock time, the live foreground tick, and the
// time-to-full computation used for the refill reminder.
package stamina

import (
	"sync"
	"time"
)

// Regenerate returns the stamina after crediting one unit per full
// recharge interval elapsed since lastSavedAt, clamped to max. It is a
// pure function; callers persist the result themselves.
func Regenerate(current int, lastSavedAt, now time.Time, max int, interval time.Duration) int {
	if current >= max {
		return max
	}
	if interval <= 0 {
		return current
	}
	elapsed := now.Sub(lastSavedAt)
	if elapsed <= 0 {
		return current
	}
	recovered := int(elapsed / interval)
	if current+recovered > max {
		return max
	}
	return current + recovered
}

// TimeToFull returns how long until stamina reaches max at one unit per
// interval, and false when it is already full.
func TimeToFull(current, max int, interval time.Duration) (time.Duration, bool) {
	if current >= max {
		return 0, false
	}
	return time.Duration(max-current) * interval, true
}

// Ticker runs fn once per interval until stopped. It is the live
// foreground regeneration loop; fn runs on the ticker's own goroutine,
// so it must be safe to call concurrently with user actions.
type Ticker struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartTicker launches the periodic tick. Callers must Stop it on
// teardown or the goroutine and underlying timer leak.
func StartTicker(interval time.Duration, fn func()) *Ticker {
	t := &Ticker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				fn()
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// Stop cancels the tick and waits for the loop to exit. Safe to call
// more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}
