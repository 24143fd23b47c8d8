// Package notify is the boundary to the platform notification service.
// The engine computes reminder payloads; delivery, permissions and
// channels belong to the collaborator behind the Scheduler interface.
package notify

import (
	"fmt"
	"log/slog"
	"time"
)

// Reminder is the payload handed to the external scheduler.
type Reminder struct {
	Title string
	Body  string
	Delay time.Duration
}

// Scheduler delivers local reminders. Schedule supersedes any pending
// reminder from a previous call; CancelAll clears without replacing, so
// stale or duplicate reminders never stack.
type Scheduler interface {
	Schedule(r Reminder) error
	CancelAll() error
}

// RefillReminder builds the "stamina full" reminder for the given pet
// and stamina level. The second return is false when stamina is already
// full and nothing should be scheduled.
func RefillReminder(petName string, current, max int, interval time.Duration) (Reminder, bool) {
	if current >= max {
		return Reminder{}, false
	}
	if petName == "" {
		petName = "Your pet"
	}
	return Reminder{
		Title: "Energy full! ⚡",
		Body:  fmt.Sprintf("%s has rested and has %d actions available. Come play!", petName, max),
		Delay: time.Duration(max-current) * interval,
	}, true
}

// LogScheduler records reminders to the log instead of delivering
// them. It stands in for the platform scheduler in the CLI and tests.
type LogScheduler struct {
	log *slog.Logger
}

// NewLogScheduler returns a scheduler that only logs. A nil logger
// uses slog.Default.
func NewLogScheduler(log *slog.Logger) *LogScheduler {
	if log == nil {
		log = slog.Default()
	}
	return &LogScheduler{log: log}
}

func (s *LogScheduler) Schedule(r Reminder) error {
	s.log.Debug("reminder scheduled", "title", r.Title, "delay", r.Delay)
	return nil
}

func (s *LogScheduler) CancelAll() error {
	s.log.Debug("pending reminders cancelled")
	return nil
}
