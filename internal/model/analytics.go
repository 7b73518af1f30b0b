package model

import (
	"math"
	"time"
)

const (
	Day           = 24 * time.Hour
	DueSoonWindow = 24 * time.Hour

	DisplayDateLayout = "Jan 02, 2006"
)

// Derived values below are recomputed on every call from the todo and the caller's clock.

func (t Todo) RemainingCount() int {
	if t.Countdown == nil {
		return 0
	}
	return t.Countdown.Total - t.Countdown.Done
}

func (t Todo) ProgressPercentage() float64 {
	if t.Countdown == nil || t.Countdown.Total <= 0 {
		return 0
	}
	return float64(t.Countdown.Done) / float64(t.Countdown.Total) * 100
}

// IsCountdownCompleted falls back to the completion flag for regular todos.
func (t Todo) IsCountdownCompleted() bool {
	if t.Countdown == nil {
		return t.Completed
	}
	return t.Countdown.Done >= t.Countdown.Total
}

func (t Todo) Done() bool {
	return t.IsCountdownCompleted()
}

func (t Todo) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Done()
}

func (t Todo) IsDueSoon(now time.Time) bool {
	if t.DueDate == nil || t.IsOverdue(now) {
		return false
	}
	left := t.DueDate.Sub(now)
	return left >= 0 && left <= DueSoonWindow
}

// DaysSinceCreation is never below 1 for countdown todos, 0 for regular ones.
func (t Todo) DaysSinceCreation(now time.Time) int {
	if t.Countdown == nil {
		return 0
	}
	return max(wholeDays(now.Sub(t.CreatedAt)), 1)
}

func (t Todo) DaysUntilDue(now time.Time) int {
	if t.Countdown == nil || t.DueDate == nil {
		return 0
	}
	return max(wholeDays(t.DueDate.Sub(now)), 0)
}

func (t Todo) RequiredDailyPace(now time.Time) float64 {
	days := t.DaysUntilDue(now)
	if days <= 0 {
		return 0
	}
	return float64(t.RemainingCount()) / float64(days)
}

func (t Todo) CurrentDailyPace(now time.Time) float64 {
	days := t.DaysSinceCreation(now)
	if t.Countdown == nil || days <= 0 {
		return 0
	}
	return float64(t.Countdown.Done) / float64(days)
}

// EstimatedCompletion projects the finish date from the current pace.
// It reports false for regular or finished todos and when nothing has been done yet.
func (t Todo) EstimatedCompletion(now time.Time) (time.Time, bool) {
	if t.Countdown == nil || t.IsCountdownCompleted() {
		return time.Time{}, false
	}
	pace := t.CurrentDailyPace(now)
	if pace <= 0 {
		return time.Time{}, false
	}
	days := float64(t.RemainingCount()) / pace
	return now.Add(time.Duration(days * float64(Day))), true
}

func (t Todo) EstimatedCompletionDate(now time.Time) (string, bool) {
	at, ok := t.EstimatedCompletion(now)
	if !ok {
		return "", false
	}
	return FormatDate(at), true
}

func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

func wholeDays(d time.Duration) int {
	return int(math.Floor(float64(d) / float64(Day)))
}
