package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildTaskListWhereForTodayView(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	assignee := uuid.New()

	where, args, next := buildTaskListWhere(ListParams{
		AssignedTo:  &assignee,
		PendingOnly: true,
		DueFrom:     &today,
		DueBefore:   &tomorrow,
	})

	want := "TRUE AND status = 'pending' AND assigned_to = $1 AND due_date >= $2 AND due_date < $3"
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 3 || next != 4 {
		t.Fatalf("args=%d next=%d", len(args), next)
	}
}

func TestCompletedListingOrdersByCompletion(t *testing.T) {
	where, args, _ := buildTaskListWhere(ListParams{CompletedOnly: true, Limit: 500})
	if where != "TRUE AND status = 'completed'" || len(args) != 0 {
		t.Fatalf("where = %q args=%d", where, len(args))
	}
	if got := taskListOrder(ListParams{CompletedOnly: true}); got != "completed_at DESC, created_at ASC" {
		t.Fatalf("order = %q", got)
	}
	if got := taskListOrder(ListParams{PendingOnly: true}); !strings.HasPrefix(got, "due_date ASC") {
		t.Fatalf("order = %q", got)
	}
}
