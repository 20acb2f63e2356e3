package school

import "time"

// AssignmentStatus is derived deterministically from the due date, the
// current time and actual grade presence. The reference dashboards rolled
// dice here; that was a placeholder, not a feature.
type AssignmentStatus string

const (
	StatusCompleted AssignmentStatus = "completed"
	StatusOverdue   AssignmentStatus = "overdue"
	StatusDueSoon   AssignmentStatus = "due-soon"
	StatusUpcoming  AssignmentStatus = "upcoming"
)

// dueSoonWindow is how far ahead of the due date an assignment starts
// counting as due-soon.
const dueSoonWindow = 3 * 24 * time.Hour

// StatusOf reports the status of an assignment. A due date exactly equal
// to now has not passed yet.
func StatusOf(a Assignment, graded bool, now time.Time) AssignmentStatus {
	if graded {
		return StatusCompleted
	}
	if a.DueDate.Before(now) {
		return StatusOverdue
	}
	if a.DueDate.Sub(now) <= dueSoonWindow {
		return StatusDueSoon
	}
	return StatusUpcoming
}
