package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOverdue(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		task   Task
		expect bool
	}{
		{"past and pending", Task{DueDate: yesterday, Status: StatusPending}, true},
		{"past and cancelled", Task{DueDate: yesterday, Status: StatusCancelled}, true},
		{"past and completed", Task{DueDate: yesterday, Status: StatusCompleted}, false},
		{"due today", Task{DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Status: StatusPending}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.task.Overdue(today))
		})
	}
}

func TestSortIsStableWithinPriority(t *testing.T) {
	tasks := []Task{
		{Title: "a", Priority: PriorityLow},
		{Title: "b", Priority: PriorityHigh},
		{Title: "c", Priority: PriorityLow},
		{Title: "d", Priority: PriorityHigh},
		{Title: "e", Priority: PriorityMedium},
	}
	Sort(tasks, SortByPriority)

	titles := make([]string, len(tasks))
	for i := range tasks {
		titles[i] = tasks[i].Title
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, titles)
}

func TestToViewAssigner(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	self := Task{AssignedBy: &owner, AssignerName: "Owner"}
	assert.Equal(t, "Self", self.ToView(owner, time.Now()).AssignedBy)

	assigned := Task{AssignedBy: &other, AssignerName: "Manager"}
	assert.Equal(t, "Manager", assigned.ToView(owner, time.Now()).AssignedBy)

	assert.Equal(t, "Self", (&Task{}).ToView(owner, time.Now()).AssignedBy)
}
