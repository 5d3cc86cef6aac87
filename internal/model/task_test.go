package model

import (
	"errors"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func sameTask(a, b Task) bool {
	return a.Type() == b.Type() &&
		a.Description() == b.Description() &&
		a.IsDone() == b.IsDone() &&
		a.Date().Equal(b.Date())
}

func TestEncodeParseRoundTrip(t *testing.T) {
	todo, _ := NewTodo("read book")
	doneTodo, _ := NewTodo("buy milk")
	doneTodo.MarkDone()
	deadline, _ := NewDeadline("return book", mustDate(t, "2019-12-01"))
	event, _ := NewEvent("project meeting", mustDate(t, "2020-02-29"))
	event.MarkDone()
	piped, _ := NewDeadline("a | b", mustDate(t, "2021-01-31"))

	for _, task := range []Task{todo, doneTodo, deadline, event, piped} {
		line := task.Encode()
		got, err := ParseTask(line)
		if err != nil {
			t.Fatalf("ParseTask(%q): %v", line, err)
		}
		if !sameTask(task, got) {
			t.Errorf("round trip of %q gave %q", line, got.Encode())
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	todo, _ := NewTodo("  read book  ")
	todo.MarkDone()
	if got, want := todo.Encode(), "T | 1 | read book"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	deadline, _ := NewDeadline("return book", mustDate(t, "2019-12-01"))
	if got, want := deadline.Encode(), "D | 0 | return book | 2019-12-01"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	event, _ := NewEvent("party", mustDate(t, "2019-12-24"))
	if got, want := event.Encode(), "E | 0 | party | 2019-12-24"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestDisplay(t *testing.T) {
	todo, _ := NewTodo("read book")
	if got, want := todo.String(), "[T][ ] read book"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	todo.MarkDone()
	todo.MarkDone()
	if got, want := todo.String(), "[T][✓] read book"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	deadline, _ := NewDeadline("return book", mustDate(t, "2019-12-01"))
	if got, want := deadline.String(), "[D][ ] return book (by: 2019-12-01)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	event, _ := NewEvent("party", mustDate(t, "2019-12-24"))
	if got, want := event.String(), "[E][ ] party (at: 2019-12-24)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewTaskRejectsEmptyDescription(t *testing.T) {
	if _, err := NewTodo("   "); !IsKind(err, KindNoDescription) {
		t.Fatalf("expected no description error, got %v", err)
	}
	if _, err := NewEvent("", time.Now()); !IsKind(err, KindNoDescription) {
		t.Fatalf("expected no description error, got %v", err)
	}
}

func TestParseTaskRejectsCorruptLines(t *testing.T) {
	lines := []string{
		"",
		"garbage",
		"X | 0 | what",
		"T | 2 | bad flag",
		"T | 0 | ",
		"D | 0 | no date",
		"E | 1 | party | tomorrow",
	}
	for _, line := range lines {
		if _, err := ParseTask(line); !IsKind(err, KindCorruptRecord) {
			t.Errorf("ParseTask(%q) error = %v, want corrupt record", line, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2019-12-01"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, s := range []string{"tomorrow", "2019-13-01", "01-12-2019", "2019/12/01", ""} {
		_, err := ParseDate(s)
		if !IsKind(err, KindDateFormat) {
			t.Errorf("ParseDate(%q) error = %v, want date format", s, err)
		}
		var timeErr *time.ParseError
		if !errors.As(err, &timeErr) {
			t.Errorf("ParseDate(%q) should wrap *time.ParseError", s)
		}
	}
}

func TestTaskRecordRoundTrip(t *testing.T) {
	event, _ := NewEvent("party", mustDate(t, "2019-12-24"))
	event.MarkDone()
	todo, _ := NewTodo("read book")

	for i, task := range []Task{event, todo} {
		rec := NewTaskRecord(task, i)
		if rec.Position != i {
			t.Errorf("position = %d, want %d", rec.Position, i)
		}
		got, err := rec.Task()
		if err != nil {
			t.Fatalf("record to task: %v", err)
		}
		if !sameTask(task, got) {
			t.Errorf("record round trip of %q gave %q", task.Encode(), got.Encode())
		}
	}

	if _, err := (TaskRecord{ID: 3, Type: "D", Description: "x"}).Task(); !IsKind(err, KindCorruptRecord) {
		t.Errorf("expected corrupt record for dateless deadline, got %v", err)
	}
}
