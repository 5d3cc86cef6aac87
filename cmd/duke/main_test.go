package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"duke/internal/config"
	"duke/internal/model"
	"duke/internal/repository"
	"duke/internal/service"
)

func TestRunConsoleScenario(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "duke.txt")
	list, err := service.NewTaskList(ctx, repository.NewFileStore(path, repository.SkipCorrupt))
	if err != nil {
		t.Fatal(err)
	}

	input := strings.Join([]string{
		"todo read book",
		"deadline return book /by 2019-12-01",
		"list",
		"done 1",
		"delete 2",
		"list",
		"bye",
		"todo never reached",
	}, "\n")
	var out strings.Builder
	if err := runConsole(ctx, service.NewSession(list), strings.NewReader(input), &out); err != nil {
		t.Fatalf("runConsole: %v", err)
	}

	text := out.String()
	if !strings.HasPrefix(text, "Hello from") {
		t.Errorf("missing greeting: %q", text[:min(len(text), 40)])
	}
	if !strings.Contains(text, "Bye. Hope to see you again soon!") {
		t.Errorf("missing farewell")
	}
	if strings.Contains(text, "never reached") {
		t.Errorf("input after bye was processed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "T | 1 | read book\n" {
		t.Fatalf("saved file = %q", got)
	}
}

func TestRunConsoleStopsAtEOF(t *testing.T) {
	ctx := context.Background()
	list, err := service.NewTaskList(ctx, repository.NewFileStore(filepath.Join(t.TempDir(), "duke.txt"), repository.SkipCorrupt))
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := runConsole(ctx, service.NewSession(list), strings.NewReader("list"), &out); err != nil {
		t.Fatalf("runConsole: %v", err)
	}
	if !strings.Contains(out.String(), "You have no tasks in the list.") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestOpenStoreSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	store, err := openStore(config.Config{Storage: config.StorageFile, DataFile: filepath.Join(dir, "duke.txt")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*repository.FileStore); !ok {
		t.Fatalf("file storage gave %T", store)
	}

	store, err = openStore(config.Config{Storage: config.StorageSQLite, DatabaseURL: filepath.Join(dir, "duke.db"), StrictLoad: true})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, ok := store.(*repository.SQLiteStore); !ok {
		t.Fatalf("sqlite storage gave %T", store)
	}
}

func TestRunConsoleSurvivesOversizedLine(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "duke.txt")
	list, err := service.NewTaskList(ctx, repository.NewFileStore(path, repository.SkipCorrupt))
	if err != nil {
		t.Fatal(err)
	}

	huge := "todo " + strings.Repeat("x", 70000)
	input := huge + "\n" + "todo read book\n" + "list\n" + "bye\n"
	var out strings.Builder
	if err := runConsole(ctx, service.NewSession(list), strings.NewReader(input), &out); err != nil {
		t.Fatalf("runConsole: %v", err)
	}

	if size := list.Size(); size != 2 {
		t.Fatalf("size = %d, want 2", size)
	}
	if !strings.Contains(out.String(), "2.[T][ ] read book") {
		t.Errorf("later commands were not run")
	}
	if !strings.Contains(out.String(), "Bye. Hope to see you again soon!") {
		t.Errorf("missing farewell")
	}
}

func TestRunConsoleHandlesCRLF(t *testing.T) {
	ctx := context.Background()
	list, err := service.NewTaskList(ctx, repository.NewFileStore(filepath.Join(t.TempDir(), "duke.txt"), repository.SkipCorrupt))
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := runConsole(ctx, service.NewSession(list), strings.NewReader("done 1x\r\nbye\r\n"), &out); err != nil {
		t.Fatalf("runConsole: %v", err)
	}
	if !strings.Contains(out.String(), "Please enter an integer as argument.") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Bye.") {
		t.Fatal("bye with CRLF was not recognised")
	}
}

// closeCounter is a store whose load can fail, recording Close calls.
type closeCounter struct {
	loadErr error
	closed  int
}

func (s *closeCounter) Load(context.Context) ([]model.Task, error) { return nil, s.loadErr }
func (s *closeCounter) Save(context.Context, []model.Task) error   { return nil }

func (s *closeCounter) Close() error {
	s.closed++
	return nil
}

func TestRunClosesStoreOnEveryPath(t *testing.T) {
	ctx := context.Background()
	opener := func(store *closeCounter) storeOpener {
		return func(config.Config) (repository.Store, error) { return store, nil }
	}

	corrupt := &closeCounter{loadErr: model.NewError(model.KindCorruptRecord, "bad line")}
	err := run(ctx, config.Config{}, opener(corrupt), func(context.Context, config.Config, *service.Session) error {
		t.Fatal("session started despite a failed load")
		return nil
	})
	if !model.IsKind(err, model.KindCorruptRecord) {
		t.Fatalf("run error = %v, want corrupt record", err)
	}
	if corrupt.closed != 1 {
		t.Fatalf("store closed %d times after failed load, want 1", corrupt.closed)
	}

	healthy := &closeCounter{}
	boom := errors.New("boom")
	err = run(ctx, config.Config{}, opener(healthy), func(context.Context, config.Config, *service.Session) error {
		return boom
	})
	if !errors.Is(err, boom) || healthy.closed != 1 {
		t.Fatalf("run error = %v, closed %d", err, healthy.closed)
	}
}

func TestRunReportsOpenFailure(t *testing.T) {
	failing := func(config.Config) (repository.Store, error) {
		return nil, model.NewError(model.KindPersistence, "open task database")
	}
	err := run(context.Background(), config.Config{}, failing, func(context.Context, config.Config, *service.Session) error {
		return nil
	})
	if !model.IsKind(err, model.KindPersistence) {
		t.Fatalf("run error = %v, want persistence", err)
	}
}
