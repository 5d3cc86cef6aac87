// Package parser turns raw input lines into commands.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"duke/internal/model"
)

const (
	keywordTodo     = "todo"
	keywordDeadline = "deadline"
	keywordEvent    = "event"
	keywordDone     = "done"
	keywordDelete   = "delete"
	keywordList     = "list"
	keywordFind     = "find"
	keywordExit     = "bye"

	separatorBy = "/by"
	separatorAt = "/at"
)

// ParseCommand classifies line and parses its arguments.
func ParseCommand(line string) (Command, error) {
	kind := ClassifyCommand(line)
	switch kind {
	case CommandList, CommandExit:
		return Command{Kind: kind}, nil
	case CommandFind:
		return Command{Kind: kind, Keyword: remainder(line, keywordFind)}, nil
	case CommandDone:
		index, err := ParseIndex(line, keywordDone)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, Index: index}, nil
	case CommandDelete:
		index, err := ParseIndex(line, keywordDelete)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, Index: index}, nil
	case CommandAdd:
		task, err := ParseAdd(line)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, Task: task}, nil
	default:
		return Command{}, model.NewError(model.KindUnknownCommand, fmt.Sprintf("unknown command %q", firstWord(line)))
	}
}

// ClassifyCommand looks only at the leading keyword.
func ClassifyCommand(line string) CommandKind {
	switch firstWord(line) {
	case keywordTodo, keywordDeadline, keywordEvent:
		return CommandAdd
	case keywordDone:
		return CommandDone
	case keywordDelete:
		return CommandDelete
	case keywordList:
		return CommandList
	case keywordFind:
		return CommandFind
	case keywordExit:
		return CommandExit
	default:
		return CommandUnknown
	}
}

// ClassifyAdd picks the task variant an add command asks for.
func ClassifyAdd(line string) AddKind {
	switch firstWord(line) {
	case keywordTodo:
		return AddTodo
	case keywordDeadline:
		return AddDeadline
	case keywordEvent:
		return AddEvent
	default:
		return AddUnrecognized
	}
}

// ParseAdd builds the task described by an add command.
func ParseAdd(line string) (model.Task, error) {
	switch ClassifyAdd(line) {
	case AddTodo:
		todo, err := model.NewTodo(remainder(line, keywordTodo))
		if err != nil {
			return nil, err
		}
		return todo, nil
	case AddDeadline:
		desc, date, err := splitDated(remainder(line, keywordDeadline), separatorBy)
		if err != nil {
			return nil, err
		}
		deadline, err := model.NewDeadline(desc, date)
		if err != nil {
			return nil, err
		}
		return deadline, nil
	case AddEvent:
		desc, date, err := splitDated(remainder(line, keywordEvent), separatorAt)
		if err != nil {
			return nil, err
		}
		event, err := model.NewEvent(desc, date)
		if err != nil {
			return nil, err
		}
		return event, nil
	default:
		return nil, model.NewError(model.KindUnknownArguments, fmt.Sprintf("unknown task type %q", firstWord(line)))
	}
}

// ParseIndex reads the 1-based number after keyword and returns it 0-based.
func ParseIndex(line, keyword string) (int, error) {
	arg := remainder(line, keyword)
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, model.WrapError(model.KindNumberFormat, fmt.Sprintf("%q is not a task number", arg), err)
	}
	return n - 1, nil
}

// splitDated separates "<description> <sep> <date>". The description is checked first.
func splitDated(rest, sep string) (string, time.Time, error) {
	desc, dateStr, found := cutToken(rest, sep)
	if strings.TrimSpace(desc) == "" {
		return "", time.Time{}, model.NewError(model.KindNoDescription, "the description of a task cannot be empty")
	}
	if !found {
		return "", time.Time{}, model.NewError(model.KindDateFormat, fmt.Sprintf("missing %s <YYYY-MM-DD>", sep))
	}
	date, err := model.ParseDate(dateStr)
	if err != nil {
		return "", time.Time{}, err
	}
	return desc, date, nil
}

// cutToken splits s around the last sep that stands alone as a word,
// so "/bylaws" never counts as "/by".
func cutToken(s, sep string) (before, after string, found bool) {
	for i := strings.LastIndex(s, sep); i >= 0; i = strings.LastIndex(s[:i], sep) {
		end := i + len(sep)
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		next, _ := utf8.DecodeRuneInString(s[end:])
		if (i == 0 || unicode.IsSpace(prev)) && (end == len(s) || unicode.IsSpace(next)) {
			return s[:i], s[end:], true
		}
	}
	return s, "", false
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// remainder is the trimmed text after the leading keyword.
func remainder(line, keyword string) string {
	rest := strings.TrimSpace(line)
	rest = strings.TrimPrefix(rest, keyword)
	return strings.TrimSpace(rest)
}
