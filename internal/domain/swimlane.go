package domain

import "time"

// Swimlane is a temporal bucket computed from due date and stage, used only
// for display grouping. Never persisted: "today" moves, so it is recomputed
// on every read.
type Swimlane string

const (
	SwimlaneOverdue    Swimlane = "overdue"
	SwimlaneOnSchedule Swimlane = "onSchedule"
	SwimlaneOthers     Swimlane = "others"
)

// SwimlaneDef describes a swimlane for presentation.
type SwimlaneDef struct {
	ID    Swimlane
	Label string
}

// Swimlanes returns the fixed display order.
func Swimlanes() []SwimlaneDef {
	return []SwimlaneDef{
		{SwimlaneOverdue, "OVERDUE"},
		{SwimlaneOnSchedule, "ON SCHEDULE"},
		{SwimlaneOthers, "OTHERS"},
	}
}

// ClassifySwimlane buckets a record by its due date and stage. The comparison
// is date-only; time of day is ignored on both sides. Records without a due
// date are "others"; completed records are never overdue.
func ClassifySwimlane(due *time.Time, stage Stage, now time.Time) Swimlane {
	if due == nil {
		return SwimlaneOthers
	}
	today := truncateToDay(now)
	dueDay := truncateToDay(*due)
	if dueDay.Before(today) && !IsDoneStage(stage) {
		return SwimlaneOverdue
	}
	return SwimlaneOnSchedule
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
