package parser

import "duke/internal/model"

// CommandKind is the top level classification of an input line.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandAdd
	CommandDone
	CommandDelete
	CommandList
	CommandFind
	CommandExit
)

func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandDone:
		return "done"
	case CommandDelete:
		return "delete"
	case CommandList:
		return "list"
	case CommandFind:
		return "find"
	case CommandExit:
		return "exit"
	default:
		return "unknown"
	}
}

// AddKind is the second stage classification of an add command.
type AddKind int

const (
	AddUnrecognized AddKind = iota
	AddTodo
	AddDeadline
	AddEvent
)

// Command is the parsed form of one input line. Only the fields relevant to Kind are set.
type Command struct {
	Kind CommandKind
	// Index is 0-based and not range checked.
	Index   int
	Keyword string
	Task    model.Task
}
