package repository

import (
	"context"

	log "github.com/sirupsen/logrus"

	"duke/internal/model"
)

// Store loads and rewrites the whole task list.
type Store interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}

// LoadPolicy decides what happens to a stored task that cannot be parsed.
type LoadPolicy int

const (
	// SkipCorrupt logs and drops the bad record, loading the rest.
	SkipCorrupt LoadPolicy = iota
	// FailOnCorrupt aborts the load.
	FailOnCorrupt
)

// collect applies the policy to one decoded record. A non-nil error aborts the load.
func (p LoadPolicy) collect(tasks []model.Task, task model.Task, err error, fields log.Fields) ([]model.Task, error) {
	if err == nil {
		return append(tasks, task), nil
	}
	if p == FailOnCorrupt {
		return nil, err
	}
	log.WithFields(fields).WithError(err).Warn("skipping corrupt task record")
	return tasks, nil
}
