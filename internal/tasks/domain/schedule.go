package domain

import (
	"sort"
	"time"
)

// Bucket is the time class of a pending task relative to today.
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketDueToday Bucket = "due_today"
	BucketUpcoming Bucket = "upcoming"
)

// View selects which tasks a listing returns.
type View string

const (
	ViewToday    View = "today"
	ViewOverdue  View = "overdue"
	ViewUpcoming View = "upcoming"
	ViewAll      View = "all"
)

func (v View) Valid() bool {
	switch v {
	case ViewToday, ViewOverdue, ViewUpcoming, ViewAll:
		return true
	}
	return false
}

// Classify places a pending task in its bucket. Completed tasks belong to
// no bucket. today must be a date at midnight.
func Classify(t Task, today time.Time) (Bucket, bool) {
	if t.Status != StatusPending {
		return "", false
	}
	switch due := t.DueDate; {
	case due.Before(today):
		return BucketOverdue, true
	case due.Equal(today):
		return BucketDueToday, true
	default:
		return BucketUpcoming, true
	}
}

// Buckets are the pending tasks split by time class, each in schedule order.
type Buckets struct {
	Overdue  []Task
	DueToday []Task
	Upcoming []Task
}

// Partition classifies tasks against today.
func Partition(tasks []Task, today time.Time) Buckets {
	var b Buckets
	for _, t := range tasks {
		bucket, ok := Classify(t, today)
		if !ok {
			continue
		}
		switch bucket {
		case BucketOverdue:
			b.Overdue = append(b.Overdue, t)
		case BucketDueToday:
			b.DueToday = append(b.DueToday, t)
		case BucketUpcoming:
			b.Upcoming = append(b.Upcoming, t)
		}
	}
	SortSchedule(b.Overdue)
	SortSchedule(b.DueToday)
	SortSchedule(b.Upcoming)
	return b
}

// SortSchedule orders tasks by due date ascending, then priority
// descending, then due time with untimed tasks last, then creation time.
func SortSchedule(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return scheduleLess(tasks[i], tasks[j])
	})
}

func scheduleLess(a, b Task) bool {
	if !a.DueDate.Equal(b.DueDate) {
		return a.DueDate.Before(b.DueDate)
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	if ta, tb := deref(a.DueTime), deref(b.DueTime); ta != tb {
		if ta == "" || tb == "" {
			return tb == ""
		}
		return ta < tb
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// ForView selects and orders tasks for view. The all view lists overdue,
// due-today and upcoming tasks in that order, followed by completed tasks
// with the most recently completed first.
func ForView(tasks []Task, view View, today time.Time) []Task {
	b := Partition(tasks, today)
	switch view {
	case ViewOverdue:
		return nonNil(b.Overdue)
	case ViewToday:
		return nonNil(b.DueToday)
	case ViewUpcoming:
		return nonNil(b.Upcoming)
	}

	out := make([]Task, 0, len(tasks))
	out = append(out, b.Overdue...)
	out = append(out, b.DueToday...)
	out = append(out, b.Upcoming...)

	var completed []Task
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			completed = append(completed, t)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completedAt(completed[i]).After(completedAt(completed[j]))
	})
	return append(out, completed...)
}

func completedAt(t Task) time.Time {
	if t.CompletedAt == nil {
		return time.Time{}
	}
	return *t.CompletedAt
}

func nonNil(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	return tasks
}
