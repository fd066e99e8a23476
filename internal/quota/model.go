package quota

import (
	"time"

	"github.com/google/uuid"
)

// Record mirrors the quota columns of one profiles row. Date is a calendar
// day in DateLayout form; counts from an older day are logically zero.
type Record struct {
	UserID        uuid.UUID
	QuestionsUsed int
	Date          string
}

// Status is the wire response for both quota actions.
type Status struct {
	DailyQuestionsUsed int `json:"daily_questions_used"`
	Remaining          int `json:"remaining"`
}

// DateLayout is the calendar-day format stored alongside the counter.
const DateLayout = "2006-01-02"

// Today returns the current UTC calendar day.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}
