// Package ui renders replies for the console and chat front-ends.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"duke/internal/model"
)

const (
	indent  = "\t"
	newline = "\n"
	logo    = " ____        _        \n" +
		"|  _ \\ _   _| | _____ \n" +
		"| | | | | | | |/ / _ \\\n" +
		"| |_| | |_| |   <  __/\n" +
		"|____/ \\__,_|_|\\_\\___|\n"
	oops = " ☹ OOPS!!! "
)

// Divider is the rule printed around every console reply.
var Divider = indent + strings.Repeat("_", 64) + newline

func Greeting() string {
	return "Hello from" + newline + logo + Frame(Welcome())
}

func Welcome() string {
	return indent + "Hello! I'm Duke" + newline +
		indent + "What can I do for you?"
}

func Farewell() string {
	return indent + " Bye. Hope to see you again soon!"
}

// Frame surrounds a reply with dividers.
func Frame(text string) string {
	return Divider + text + newline + Divider
}

func Added(task model.Task, size int) string {
	return fmt.Sprintf(indent+" Got it. I've added this task:"+newline+
		indent+indent+" %s"+newline+
		indent+" Now you have %s in the list.", task, countTasks(size))
}

func MarkedDone(task model.Task) string {
	return fmt.Sprintf(indent+" Nice! I've marked this task as done:"+newline+
		indent+indent+" %s", task)
}

func Deleted(task model.Task, size int) string {
	return fmt.Sprintf(indent+" Noted. I've removed this task:"+newline+
		indent+indent+" %s"+newline+
		indent+" Now you have %s in the list.", task, countTasks(size))
}

func TaskList(items []model.Entry) string {
	if len(items) == 0 {
		return indent + "You have no tasks in the list."
	}
	return listing(indent+"Here are the tasks in your list:", items)
}

// Matches numbers the hits 1..k in list order, not by their list positions.
func Matches(items []model.Entry) string {
	if len(items) == 0 {
		return indent + "You have no matching tasks in the list."
	}
	hits := make([]model.Entry, len(items))
	for i, item := range items {
		hits[i] = model.Entry{Number: i + 1, Task: item.Task}
	}
	return listing(indent+"Here are the matching tasks in your list:", hits)
}

// Error maps a failed command to its reply. size is the current list length.
func Error(err error, size int) string {
	var e *model.Error
	if !errors.As(err, &e) {
		return indent + oops + "Something went wrong: " + err.Error()
	}
	switch e.Kind {
	case model.KindUnknownArguments, model.KindUnknownCommand:
		return indent + oops + "I'm sorry, but I don't know what that means :-("
	case model.KindNoDescription:
		return indent + oops + "The description of a task cannot be empty."
	case model.KindDateFormat:
		return indent + "Date is not input correctly. Ensure input date is: YYYY-MM-DD."
	case model.KindNumberFormat:
		return indent + "Please enter an integer as argument. " + e.Msg
	case model.KindIndexOutOfRange:
		return fmt.Sprintf(indent+"Please enter an integer within your tasks size: %d.", size)
	case model.KindEmptyList:
		return indent + oops + "Your task list is empty, there is nothing to delete."
	case model.KindPersistence:
		return PersistenceWarning(err)
	case model.KindCorruptRecord:
		return indent + oops + "Your save file is corrupted: " + err.Error()
	default:
		return indent + oops + "Something went wrong: " + err.Error()
	}
}

// PersistenceWarning is appended to a reply when the change could not be saved.
func PersistenceWarning(err error) string {
	return indent + oops + "I could not save your tasks: " + err.Error()
}

func listing(header string, items []model.Entry) string {
	var b strings.Builder
	b.WriteString(header)
	for _, item := range items {
		b.WriteString(fmt.Sprintf(newline+indent+"%d.%s", item.Number, item.Task))
	}
	return b.String()
}

func countTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
