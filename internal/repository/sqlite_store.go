package repository

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"duke/internal/model"
)

// SQLiteStore keeps the task list as ordered rows in a sqlite table.
type SQLiteStore struct {
	db     *gorm.DB
	policy LoadPolicy
}

func NewSQLiteStore(db *gorm.DB, policy LoadPolicy) *SQLiteStore {
	return &SQLiteStore{db: db, policy: policy}
}

// OpenSQLiteStore opens (and migrates) the database at dsn.
func OpenSQLiteStore(dsn string, policy LoadPolicy) (*SQLiteStore, error) {
	db, err := NewDB(dsn)
	if err != nil {
		return nil, model.WrapError(model.KindPersistence, "open task database", err)
	}
	return NewSQLiteStore(db, policy), nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]model.Task, error) {
	var records []model.TaskRecord
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, model.WrapError(model.KindPersistence, "list tasks", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		task, perr := rec.Task()
		var err error
		tasks, err = s.policy.collect(tasks, task, perr, log.Fields{"row": rec.ID, "position": rec.Position})
		if err != nil {
			return nil, fmt.Errorf("task row %d: %w", rec.ID, err)
		}
	}
	return tasks, nil
}

// Save replaces every row in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, tasks []model.Task) error {
	records := make([]model.TaskRecord, 0, len(tasks))
	for i, task := range tasks {
		records = append(records, model.NewTaskRecord(task, i))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.TaskRecord{}).Error; err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&records, 100).Error; err != nil {
			return fmt.Errorf("insert tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.WrapError(model.KindPersistence, "save tasks", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
