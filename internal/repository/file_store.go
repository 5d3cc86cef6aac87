package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"duke/internal/model"
)

// FileStore keeps one canonical task line per row in a plain text file.
type FileStore struct {
	path   string
	policy LoadPolicy
}

func NewFileStore(path string, policy LoadPolicy) *FileStore {
	return &FileStore{path: path, policy: policy}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads every task. A missing file is created empty.
func (s *FileStore) Load(ctx context.Context) ([]model.Task, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.create(); err != nil {
			return nil, err
		}
		log.WithField("path", s.path).Info("created empty task file")
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, model.WrapError(model.KindPersistence, "open task file", err)
	}
	defer f.Close()

	tasks := []model.Task{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		task, perr := model.ParseTask(line)
		tasks, err = s.policy.collect(tasks, task, perr, log.Fields{"path": s.path, "line": lineNo})
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, model.WrapError(model.KindPersistence, "read task file", err)
	}

	log.WithFields(log.Fields{"path": s.path, "tasks": len(tasks)}).Debug("loaded tasks")
	return tasks, nil
}

// Save replaces the file contents through a temp file and rename.
func (s *FileStore) Save(ctx context.Context, tasks []model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}

	var b strings.Builder
	for _, task := range tasks {
		b.WriteString(task.Encode())
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return model.WrapError(model.KindPersistence, "create temp task file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return model.WrapError(model.KindPersistence, "write task file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return model.WrapError(model.KindPersistence, "close task file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return model.WrapError(model.KindPersistence, "replace task file", err)
	}

	log.WithFields(log.Fields{"path": s.path, "tasks": len(tasks)}).Debug("saved tasks")
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) create() error {
	if err := ensureDir(s.path); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return model.WrapError(model.KindPersistence, "create task file", err)
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.WrapError(model.KindPersistence, fmt.Sprintf("create dir %q", dir), err)
	}
	return nil
}
