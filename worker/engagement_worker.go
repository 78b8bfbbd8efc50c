package worker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"

	"neshama/engagement"
	"neshama/utils"
)

// EngagementWorker schedules the daily and evening campaign runs on local
// wall-clock times.
type EngagementWorker struct {
	Orchestrator *engagement.Orchestrator
	Timezone     string
	DailyRunAt   string
	EveningRunAt string

	scheduler gocron.Scheduler
}

func NewEngagementWorker(orchestrator *engagement.Orchestrator, timezone, dailyAt, eveningAt string) *EngagementWorker {
	return &EngagementWorker{
		Orchestrator: orchestrator,
		Timezone:     timezone,
		DailyRunAt:   dailyAt,
		EveningRunAt: eveningAt,
	}
}

// Start schedules both runs and returns. Stop shuts the scheduler down.
func (w *EngagementWorker) Start(ctx context.Context) error {
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return fmt.Errorf("invalid campaign timezone %q: %w", w.Timezone, err)
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	dailyCron, err := cronFromWallClock(w.DailyRunAt)
	if err != nil {
		return fmt.Errorf("invalid daily run time: %w", err)
	}
	eveningCron, err := cronFromWallClock(w.EveningRunAt)
	if err != nil {
		return fmt.Errorf("invalid evening run time: %w", err)
	}

	_, err = s.NewJob(
		gocron.CronJob(dailyCron, false),
		gocron.NewTask(func() { w.runDaily(ctx) }),
		gocron.WithName("daily-engagement-run"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule daily run: %w", err)
	}

	_, err = s.NewJob(
		gocron.CronJob(eveningCron, false),
		gocron.NewTask(func() { w.runEvening(ctx) }),
		gocron.WithName("evening-engagement-run"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule evening run: %w", err)
	}

	s.Start()
	w.scheduler = s
	log.Infof("⏰ Engagement worker started (daily %s, evening %s, %s)", w.DailyRunAt, w.EveningRunAt, w.Timezone)
	return nil
}

func (w *EngagementWorker) Stop() {
	if w.scheduler == nil {
		return
	}
	if err := w.scheduler.Shutdown(); err != nil {
		log.Errorf("Engagement scheduler shutdown failed: %v", err)
	}
}

func (w *EngagementWorker) runDaily(ctx context.Context) {
	if _, err := w.Orchestrator.RunDailyCampaign(ctx); err != nil {
		utils.LogError(err, "daily_run_failed", nil)
	}
}

func (w *EngagementWorker) runEvening(ctx context.Context) {
	if _, err := w.Orchestrator.RunEveningCampaign(ctx); err != nil {
		utils.LogError(err, "evening_run_failed", nil)
	}
}

// cronFromWallClock turns "HH:MM" into a daily cron expression.
func cronFromWallClock(at string) (string, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM, got %q", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
