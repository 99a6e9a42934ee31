package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gatherly/config"
	blockedRepo "gatherly/database/repository/blocked"
	eventRepo "gatherly/database/repository/event"
	"gatherly/middleware"
	"gatherly/services/availability"
	"gatherly/services/calendar"
	"gatherly/services/event"
	"gatherly/utils"
)

const (
	TypeBlockedRollover = "blocked:rollover"
	TypeCalendarRefresh = "calendar:refresh"
)

// idleSweepAfter is how long per-event locks and per-IP limiters may sit
// unused before the hourly sweep drops them.
const idleSweepAfter = time.Hour

// RolloverPayload identifies the user whose blocked-date record migrates to
// the new period anchor.
type RolloverPayload struct {
	UserID string `json:"userId"`
}

// RefreshPayload identifies the event whose participants' calendars are
// re-synced.
type RefreshPayload struct {
	EventID string `json:"eventId"`
}

// Deps are the collaborators the worker and scheduler need.
type Deps struct {
	BlockedStore availability.BlockedDateStore
	BlockedRepo  blockedRepo.BlockedPeriodRepository
	EventRepo    eventRepo.EventRepository
	Calendar     calendar.CalendarService
	EventSvc     event.EventService
	Cache        availability.ResultInvalidator
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitWorker runs the async worker in background.
func InitWorker(deps Deps) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBlockedRollover, handleRollover(deps))
	mux.HandleFunc(TypeCalendarRefresh, handleRefresh(deps))

	go func() {
		log.Println("[Worker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] failed to start: %v", err)
		}
	}()
}

// StartScheduler enqueues the monthly rollover and the periodic refresh, and
// sweeps idle in-memory state hourly. Returns the cron so main can stop it.
func StartScheduler(deps Deps) *cron.Cron {
	client := asynq.NewClient(redisOpts())
	logger := utils.GetLogger()
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.RolloverCronSpec, func() {
		enqueueRollovers(client, deps, logger)
	})
	if err != nil {
		log.Fatalf("[Scheduler] bad rollover cron spec: %v", err)
	}

	_, err = c.AddFunc(config.AppConfig.RefreshCronSpec, func() {
		enqueueRefreshes(client, deps, logger)
	})
	if err != nil {
		log.Fatalf("[Scheduler] bad refresh cron spec: %v", err)
	}

	_, _ = c.AddFunc("@hourly", func() {
		locks := deps.EventSvc.SweepLocks(idleSweepAfter)
		limiters := middleware.SweepRateLimiters(idleSweepAfter)
		logger.Debug("swept idle in-memory state",
			zap.Int("eventLocks", locks), zap.Int("rateLimiters", limiters))
	})

	c.Start()
	return c
}

func enqueueRollovers(client *asynq.Client, deps Deps, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userIDs, err := deps.BlockedRepo.ListUserIDs(ctx)
	if err != nil {
		logger.Error("rollover enqueue: listing users failed", zap.Error(err))
		return
	}
	for _, userID := range userIDs {
		payload, _ := json.Marshal(RolloverPayload{UserID: userID})
		if _, err := client.Enqueue(asynq.NewTask(TypeBlockedRollover, payload)); err != nil {
			logger.Error("rollover enqueue failed", zap.String("userID", userID), zap.Error(err))
		}
	}
	logger.Info("rollover tasks enqueued", zap.Int("users", len(userIDs)))
}

func enqueueRefreshes(client *asynq.Client, deps Deps, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	eventIDs, err := deps.EventRepo.ListFlexibleEventIDs(ctx)
	if err != nil {
		logger.Error("refresh enqueue: listing events failed", zap.Error(err))
		return
	}
	for _, eventID := range eventIDs {
		payload, _ := json.Marshal(RefreshPayload{EventID: eventID})
		if _, err := client.Enqueue(asynq.NewTask(TypeCalendarRefresh, payload)); err != nil {
			logger.Error("refresh enqueue failed", zap.String("eventID", eventID), zap.Error(err))
		}
	}
	logger.Info("refresh tasks enqueued", zap.Int("events", len(eventIDs)))
}

func handleRollover(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p RolloverPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("rollover task: invalid payload", zap.Error(err))
			return err
		}
		return deps.BlockedStore.Rollover(ctx, p.UserID)
	}
}

// handleRefresh re-syncs every participant's calendar sources and drops the
// event's cached recommendations, so the next request computes fresh.
func handleRefresh(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p RefreshPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("refresh task: invalid payload", zap.Error(err))
			return err
		}

		participants, err := deps.EventRepo.GetActiveParticipants(ctx, p.EventID)
		if err != nil {
			return err
		}
		for _, participant := range participants {
			deps.Calendar.SyncAllForUser(ctx, participant.UserID)
		}
		if deps.Cache != nil {
			return deps.Cache.InvalidateEvent(ctx, p.EventID)
		}
		return nil
	}
}
