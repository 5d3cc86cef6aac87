package model

import (
	"fmt"
	"time"
)

// TaskRecord is the sqlite row for one task. Position keeps list order.
type TaskRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Position    int    `gorm:"uniqueIndex"`
	Type        string `gorm:"size:1"`
	Description string
	IsDone      bool `gorm:"default:false"`
	Date        *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaskRecord) TableName() string {
	return "tasks"
}

// NewTaskRecord converts a task into its row at the given list position.
func NewTaskRecord(task Task, position int) TaskRecord {
	rec := TaskRecord{
		Position:    position,
		Type:        string(task.Type()),
		Description: task.Description(),
		IsDone:      task.IsDone(),
	}
	if d := task.Date(); !d.IsZero() {
		rec.Date = &d
	}
	return rec
}

// Task rebuilds the task a row describes.
func (r TaskRecord) Task() (Task, error) {
	var (
		task Task
		err  error
	)
	switch Type(r.Type) {
	case TypeTodo:
		task, err = NewTodo(r.Description)
	case TypeDeadline, TypeEvent:
		if r.Date == nil {
			return nil, NewError(KindCorruptRecord, fmt.Sprintf("task row %d has no date", r.ID))
		}
		if Type(r.Type) == TypeDeadline {
			task, err = NewDeadline(r.Description, *r.Date)
		} else {
			task, err = NewEvent(r.Description, *r.Date)
		}
	default:
		return nil, NewError(KindCorruptRecord, fmt.Sprintf("task row %d has unknown type %q", r.ID, r.Type))
	}
	if err != nil {
		return nil, WrapError(KindCorruptRecord, fmt.Sprintf("task row %d is invalid", r.ID), err)
	}
	if r.IsDone {
		task.MarkDone()
	}
	return task, nil
}
