package school

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	now := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    time.Time
		graded bool
		want   AssignmentStatus
	}{
		{"graded is completed", now.Add(-time.Hour), true, StatusCompleted},
		{"graded trumps future due date", now.Add(30 * 24 * time.Hour), true, StatusCompleted},
		{"past due is overdue", now.Add(-time.Minute), false, StatusOverdue},
		{"due exactly now has not passed", now, false, StatusDueSoon},
		{"within the window is due-soon", now.Add(24 * time.Hour), false, StatusDueSoon},
		{"window boundary is due-soon", now.Add(dueSoonWindow), false, StatusDueSoon},
		{"past the window is upcoming", now.Add(dueSoonWindow + time.Second), false, StatusUpcoming},
		{"far future is upcoming", now.Add(30 * 24 * time.Hour), false, StatusUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{ID: "a1", DueDate: tt.due}
			assert.Equal(t, tt.want, StatusOf(a, tt.graded, now))
		})
	}
}
