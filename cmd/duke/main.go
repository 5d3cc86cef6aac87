package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"duke/internal/bot"
	"duke/internal/config"
	"duke/internal/logging"
	"duke/internal/repository"
	"duke/internal/service"
	"duke/internal/ui"
)

func main() {
	telegram := flag.Bool("telegram", false, "serve the task list over Telegram instead of the console")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logging.Setup(cfg); err != nil {
		log.Fatalf("logging: %v", err)
	}

	mode := runConsoleMode
	if *telegram {
		mode = runBot
	}
	if err := run(ctx, cfg, openStore, mode); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

// storeOpener picks the backend; sessionRunner drives the console or the bot.
type (
	storeOpener   func(config.Config) (repository.Store, error)
	sessionRunner func(context.Context, config.Config, *service.Session) error
)

// run owns the store for the whole session and closes it on every return path.
func run(ctx context.Context, cfg config.Config, open storeOpener, mode sessionRunner) error {
	store, err := open(cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("close storage")
		}
	}()

	list, err := service.NewTaskList(ctx, store)
	if err != nil {
		return err
	}
	return mode(ctx, cfg, service.NewSession(list))
}

func runConsoleMode(ctx context.Context, _ config.Config, session *service.Session) error {
	if err := runConsole(ctx, session, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

func openStore(cfg config.Config) (repository.Store, error) {
	policy := repository.SkipCorrupt
	if cfg.StrictLoad {
		policy = repository.FailOnCorrupt
	}

	switch cfg.Storage {
	case config.StorageSQLite:
		store, err := repository.OpenSQLiteStore(cfg.DatabaseURL, policy)
		if err != nil {
			return nil, err
		}
		log.WithField("dsn", cfg.DatabaseURL).Info("using sqlite storage")
		return store, nil
	default:
		log.WithField("path", cfg.DataFile).Info("using file storage")
		return repository.NewFileStore(cfg.DataFile, policy), nil
	}
}

// runConsole reads commands line by line until bye, end of input or cancellation.
// Lines of any length are accepted.
func runConsole(ctx context.Context, session *service.Session, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, ui.Greeting())

	reader := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && errors.Is(err, io.EOF) {
			return nil
		}

		reply := session.Handle(ctx, strings.TrimRight(line, "\r\n"))
		fmt.Fprint(out, ui.Frame(reply.Text))
		if reply.Exit || errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func runBot(ctx context.Context, cfg config.Config, session *service.Session) error {
	if !cfg.TelegramEnabled() {
		return errors.New("TELEGRAM_TOKEN is required with -telegram")
	}

	reminders := service.NewReminderService(session.List(), cfg.Telegram.ReminderHorizonDays)
	telegramBot, err := bot.New(cfg.Telegram.Token, cfg.Telegram.OwnerID, session, reminders)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.Telegram.ReminderTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendReminder(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("send reminder")
		}
	}); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info("duke bot started")
	if err := telegramBot.Start(ctx); err != nil {
		return fmt.Errorf("bot stopped with error: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}
