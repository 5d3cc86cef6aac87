package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"duke/internal/model"
)

func TestReminderUpcoming(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, &memStore{})
	for _, line := range []string{
		"todo no date",
		"deadline far away /by 2020-03-01",
		"event party /at 2020-01-11",
		"deadline overdue report /by 2020-01-05",
		"deadline done already /by 2020-01-09",
		"event today /at 2020-01-10",
	} {
		session.Handle(ctx, line)
	}
	session.Handle(ctx, "done 5")

	now := time.Date(2020, 1, 10, 15, 30, 0, 0, time.UTC)
	reminders := NewReminderService(session.List(), 2)

	got := reminders.Upcoming(now)
	var descs []string
	for _, e := range got {
		descs = append(descs, e.Task.Description())
	}
	want := []string{"overdue report", "today", "party"}
	if strings.Join(descs, ",") != strings.Join(want, ",") {
		t.Fatalf("Upcoming = %q, want %q", descs, want)
	}
	if got[0].Number != 4 {
		t.Errorf("overdue entry number = %d, want 4", got[0].Number)
	}

	summary := reminders.DailySummary(now)
	for _, part := range []string{
		"Reminders for 2020-01-10",
		"4.[D][ ] overdue report (by: 2020-01-05) - overdue by 5 days",
		"6.[E][ ] today (at: 2020-01-10) - today",
		"3.[E][ ] party (at: 2020-01-11) - tomorrow",
	} {
		if !strings.Contains(summary, part) {
			t.Errorf("summary %q missing %q", summary, part)
		}
	}
	if strings.Contains(summary, "far away") || strings.Contains(summary, "done already") {
		t.Errorf("summary has tasks it should skip: %q", summary)
	}
}

func TestReminderNothingDue(t *testing.T) {
	session := newTestSession(t, &memStore{})
	reminders := NewReminderService(session.List(), 1)
	summary := reminders.DailySummary(time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC))
	if summary != "Reminders for 2020-01-10\nNothing due in the next 1 day." {
		t.Fatalf("summary = %q", summary)
	}
}

func TestReminderIgnoresTodos(t *testing.T) {
	list := newTestList(t, &memStore{initial: []model.Task{todo(t, "a")}})
	if got := NewReminderService(list, 30).Upcoming(time.Now()); len(got) != 0 {
		t.Fatalf("todos should never be reminded, got %d", len(got))
	}
}
