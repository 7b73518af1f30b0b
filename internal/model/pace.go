package model

import (
	"fmt"
	"math"
	"time"
)

type PaceStatus string

const (
	PaceCompleted PaceStatus = "completed"
	PaceDuePassed PaceStatus = "due_passed"
	PaceAhead     PaceStatus = "ahead"
	PaceBehind    PaceStatus = "behind"
	PaceOnTrack   PaceStatus = "on_track"
)

// paceTolerance is how many items off the expected count still counts as on track.
const paceTolerance = 0.5

type PaceAnalysis struct {
	Status PaceStatus
	// Items and Days are set for PaceAhead and PaceBehind only, always non-negative.
	Items float64
	Days  float64
}

func (p PaceAnalysis) Message() string {
	switch p.Status {
	case PaceCompleted:
		return "Completed!"
	case PaceDuePassed:
		return "Due date passed"
	case PaceAhead:
		return fmt.Sprintf("Ahead of schedule by %.0f items (%.1f days)", p.Items, p.Days)
	case PaceBehind:
		return fmt.Sprintf("Behind schedule by %.0f items (%.1f days)", p.Items, p.Days)
	default:
		return "On track"
	}
}

// Pace compares actual progress with the progress needed to finish by the due date.
// It is only defined for countdown todos that have a due date.
func (t Todo) Pace(now time.Time) (PaceAnalysis, bool) {
	if t.Countdown == nil || t.DueDate == nil {
		return PaceAnalysis{}, false
	}
	if t.IsCountdownCompleted() {
		return PaceAnalysis{Status: PaceCompleted}, true
	}
	if t.DaysUntilDue(now) <= 0 {
		return PaceAnalysis{Status: PaceDuePassed}, true
	}

	required := t.RequiredDailyPace(now)
	expected := required * float64(t.DaysSinceCreation(now))
	delta := float64(t.Countdown.Done) - expected

	var status PaceStatus
	switch {
	case delta > paceTolerance:
		status = PaceAhead
	case delta < -paceTolerance:
		status = PaceBehind
	default:
		return PaceAnalysis{Status: PaceOnTrack}, true
	}

	items := math.Abs(delta)
	var days float64
	if required > 0 {
		days = items / required
	}
	return PaceAnalysis{Status: status, Items: items, Days: days}, true
}
