package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// SchedulerService runs reminder jobs on a cron schedule.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	cronLogger := cron.PrintfLogger(log.StandardLogger())
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(clock string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(clock)
	if err != nil {
		return 0, err
	}
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("schedule %q: %w", spec, err)
	}
	log.WithFields(log.Fields{"at": clock, "spec": spec}).Info("daily job scheduled")
	return id, nil
}

// Next reports when the job will run next; zero before Start.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// buildDailySpec turns "HH:MM" into a seconds-first cron spec firing once a day.
func buildDailySpec(clock string) (string, error) {
	at, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return "", fmt.Errorf("reminder time %q is not HH:MM: %w", clock, err)
	}
	return fmt.Sprintf("0 %d %d * * *", at.Minute(), at.Hour()), nil
}
