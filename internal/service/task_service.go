package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"duke/internal/model"
	"duke/internal/repository"
)

// TaskList owns the ordered tasks of a session and rewrites the store after each change.
//
// Mutating methods that fail only because the store could not be written return their
// normal result together with a KindPersistence error: the in-memory change is kept.
type TaskList struct {
	tasks []model.Task
	store repository.Store
}

// NewTaskList loads the current tasks from store.
func NewTaskList(ctx context.Context, store repository.Store) (*TaskList, error) {
	tasks, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	log.WithField("tasks", len(tasks)).Info("task list loaded")
	return &TaskList{tasks: tasks, store: store}, nil
}

// Add appends task and returns the new size.
func (l *TaskList) Add(ctx context.Context, task model.Task) (int, error) {
	l.tasks = append(l.tasks, task)
	log.WithFields(log.Fields{"type": task.Type(), "size": len(l.tasks)}).Info("task added")
	return len(l.tasks), l.persist(ctx)
}

// MarkDone flags the task at the 0-based index as done.
func (l *TaskList) MarkDone(ctx context.Context, index int) (model.Task, error) {
	if err := l.checkIndex(index); err != nil {
		return nil, err
	}
	task := l.tasks[index]
	task.MarkDone()
	log.WithField("index", index).Info("task marked done")
	return task, l.persist(ctx)
}

// Delete removes the task at the 0-based index. An empty list is reported before a bad index.
func (l *TaskList) Delete(ctx context.Context, index int) (model.Task, int, error) {
	if len(l.tasks) == 0 {
		return nil, 0, model.NewError(model.KindEmptyList, "there are no tasks to delete")
	}
	if err := l.checkIndex(index); err != nil {
		return nil, len(l.tasks), err
	}
	removed := l.tasks[index]
	l.tasks = append(l.tasks[:index:index], l.tasks[index+1:]...)
	log.WithFields(log.Fields{"index": index, "size": len(l.tasks)}).Info("task deleted")
	return removed, len(l.tasks), l.persist(ctx)
}

// List returns every task with its display number.
func (l *TaskList) List() []model.Entry {
	entries := make([]model.Entry, 0, len(l.tasks))
	for i, task := range l.tasks {
		entries = append(entries, model.Entry{Number: i + 1, Task: task})
	}
	return entries
}

// Find returns the tasks whose description contains keyword (case sensitive), in list order.
func (l *TaskList) Find(keyword string) []model.Entry {
	var entries []model.Entry
	for i, task := range l.tasks {
		if strings.Contains(task.Description(), keyword) {
			entries = append(entries, model.Entry{Number: i + 1, Task: task})
		}
	}
	return entries
}

func (l *TaskList) Size() int {
	return len(l.tasks)
}

// Tasks returns a copy of the current tasks.
func (l *TaskList) Tasks() []model.Task {
	out := make([]model.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *TaskList) checkIndex(index int) error {
	if index < 0 || index >= len(l.tasks) {
		return model.NewError(model.KindIndexOutOfRange,
			fmt.Sprintf("task number %d is outside 1..%d", index+1, len(l.tasks)))
	}
	return nil
}

func (l *TaskList) persist(ctx context.Context) error {
	if err := l.store.Save(ctx, l.tasks); err != nil {
		log.WithError(err).Error("failed to save tasks")
		if model.KindOf(err) != model.KindPersistence {
			return model.WrapError(model.KindPersistence, "save tasks", err)
		}
		return err
	}
	return nil
}
