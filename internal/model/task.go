package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

const (
	fieldSep  = " | "
	doneMark  = "✓"
	emptyMark = " "
)

// Type tags a task variant. Its string form is the type tag used in both renderings.
type Type string

const (
	TypeTodo     Type = "T"
	TypeDeadline Type = "D"
	TypeEvent    Type = "E"
)

// Task is the shared behaviour of every task variant.
type Task interface {
	Type() Type
	Description() string
	IsDone() bool
	// MarkDone sets the done flag. Calling it again is harmless.
	MarkDone()
	// Date is the due/at date for dated variants and the zero time for todos.
	Date() time.Time
	// String renders the task for display, e.g. "[D][ ] return book (by: 2019-12-01)".
	String() string
	// Encode renders the canonical storage line, e.g. "D | 0 | return book | 2019-12-01".
	Encode() string
}

type base struct {
	description string
	done        bool
}

func (b *base) Description() string { return b.description }
func (b *base) IsDone() bool        { return b.done }
func (b *base) MarkDone()           { b.done = true }

func (b *base) statusMark() string {
	if b.done {
		return doneMark
	}
	return emptyMark
}

func (b *base) doneFlag() string {
	if b.done {
		return "1"
	}
	return "0"
}

// Todo is a task without a date.
type Todo struct {
	base
}

// Deadline must be done by a date.
type Deadline struct {
	base
	By time.Time
}

// Event happens at a date.
type Event struct {
	base
	At time.Time
}

func NewTodo(description string) (*Todo, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return nil, err
	}
	return &Todo{base: base{description: desc}}, nil
}

func NewDeadline(description string, by time.Time) (*Deadline, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return nil, err
	}
	return &Deadline{base: base{description: desc}, By: truncateDate(by)}, nil
}

func NewEvent(description string, at time.Time) (*Event, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return nil, err
	}
	return &Event{base: base{description: desc}, At: truncateDate(at)}, nil
}

func (t *Todo) Type() Type      { return TypeTodo }
func (t *Todo) Date() time.Time { return time.Time{} }

func (t *Todo) String() string {
	return fmt.Sprintf("[%s][%s] %s", TypeTodo, t.statusMark(), t.description)
}

func (t *Todo) Encode() string {
	return strings.Join([]string{string(TypeTodo), t.doneFlag(), t.description}, fieldSep)
}

func (d *Deadline) Type() Type      { return TypeDeadline }
func (d *Deadline) Date() time.Time { return d.By }

func (d *Deadline) String() string {
	return fmt.Sprintf("[%s][%s] %s (by: %s)", TypeDeadline, d.statusMark(), d.description, FormatDate(d.By))
}

func (d *Deadline) Encode() string {
	return strings.Join([]string{string(TypeDeadline), d.doneFlag(), d.description, FormatDate(d.By)}, fieldSep)
}

func (e *Event) Type() Type      { return TypeEvent }
func (e *Event) Date() time.Time { return e.At }

func (e *Event) String() string {
	return fmt.Sprintf("[%s][%s] %s (at: %s)", TypeEvent, e.statusMark(), e.description, FormatDate(e.At))
}

func (e *Event) Encode() string {
	return strings.Join([]string{string(TypeEvent), e.doneFlag(), e.description, FormatDate(e.At)}, fieldSep)
}

// ParseTask rebuilds a task from its canonical line.
func ParseTask(line string) (Task, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.SplitN(line, fieldSep, 3)
	if len(parts) != 3 {
		return nil, NewError(KindCorruptRecord, fmt.Sprintf("malformed task line %q", line))
	}

	var done bool
	switch parts[1] {
	case "1":
		done = true
	case "0":
	default:
		return nil, NewError(KindCorruptRecord, fmt.Sprintf("bad done flag %q in %q", parts[1], line))
	}

	var (
		task Task
		err  error
	)
	switch Type(parts[0]) {
	case TypeTodo:
		task, err = NewTodo(parts[2])
	case TypeDeadline, TypeEvent:
		// The date is always the last field; the description may itself contain the separator.
		idx := strings.LastIndex(parts[2], fieldSep)
		if idx < 0 {
			return nil, NewError(KindCorruptRecord, fmt.Sprintf("missing date in %q", line))
		}
		date, derr := ParseDate(parts[2][idx+len(fieldSep):])
		if derr != nil {
			return nil, WrapError(KindCorruptRecord, fmt.Sprintf("bad date in %q", line), derr)
		}
		if Type(parts[0]) == TypeDeadline {
			task, err = NewDeadline(parts[2][:idx], date)
		} else {
			task, err = NewEvent(parts[2][:idx], date)
		}
	default:
		return nil, NewError(KindCorruptRecord, fmt.Sprintf("unknown task type %q in %q", parts[0], line))
	}
	if err != nil {
		return nil, WrapError(KindCorruptRecord, fmt.Sprintf("invalid task %q", line), err)
	}

	if done {
		task.MarkDone()
	}
	return task, nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, WrapError(KindDateFormat, "date must be YYYY-MM-DD", err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func cleanDescription(description string) (string, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return "", NewError(KindNoDescription, "the description of a task cannot be empty")
	}
	return desc, nil
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Entry is a task with its 1-based position in the list.
type Entry struct {
	Number int
	Task   Task
}
