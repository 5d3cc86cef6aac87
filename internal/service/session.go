package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"duke/internal/model"
	"duke/internal/parser"
	"duke/internal/ui"
)

// Reply is the rendered result of one input line.
type Reply struct {
	Text string
	// Exit is set when the line asked to end the session.
	Exit bool
}

// Session runs input lines against a task list. It is not safe for concurrent use.
type Session struct {
	list *TaskList
}

func NewSession(list *TaskList) *Session {
	return &Session{list: list}
}

func (s *Session) List() *TaskList {
	return s.list
}

// Handle parses and applies line. Command failures become reply text, never errors.
func (s *Session) Handle(ctx context.Context, line string) Reply {
	cmd, err := parser.ParseCommand(line)
	if err != nil {
		log.WithError(err).WithField("kind", model.KindOf(err)).Debug("rejected input")
		return Reply{Text: ui.Error(err, s.list.Size())}
	}

	switch cmd.Kind {
	case parser.CommandExit:
		return Reply{Text: ui.Farewell(), Exit: true}
	case parser.CommandList:
		return Reply{Text: ui.TaskList(s.list.List())}
	case parser.CommandFind:
		return Reply{Text: ui.Matches(s.list.Find(cmd.Keyword))}
	case parser.CommandAdd:
		size, err := s.list.Add(ctx, cmd.Task)
		return s.mutated(ui.Added(cmd.Task, size), err)
	case parser.CommandDone:
		task, err := s.list.MarkDone(ctx, cmd.Index)
		if err != nil && !model.IsKind(err, model.KindPersistence) {
			return Reply{Text: ui.Error(err, s.list.Size())}
		}
		return s.mutated(ui.MarkedDone(task), err)
	case parser.CommandDelete:
		task, size, err := s.list.Delete(ctx, cmd.Index)
		if err != nil && !model.IsKind(err, model.KindPersistence) {
			return Reply{Text: ui.Error(err, s.list.Size())}
		}
		return s.mutated(ui.Deleted(task, size), err)
	default:
		return Reply{Text: ui.Error(model.NewError(model.KindUnknownCommand, "unknown command"), s.list.Size())}
	}
}

// mutated renders a successful change, adding a warning if it was not saved.
func (s *Session) mutated(text string, saveErr error) Reply {
	if saveErr != nil {
		text += "\n" + ui.PersistenceWarning(saveErr)
	}
	return Reply{Text: text}
}
