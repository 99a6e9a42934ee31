// File: gatherly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gatherly/config"
	"gatherly/cron"
	"gatherly/database"
	blockedRepo "gatherly/database/repository/blocked"
	calendarsourceRepo "gatherly/database/repository/calendarsource"
	eventRepo "gatherly/database/repository/event"
	"gatherly/handlers"
	"gatherly/middleware"
	"gatherly/routes"
	"gatherly/services/availability"
	"gatherly/services/calendar"
	"gatherly/services/event"
	"gatherly/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	blockedRepository := blockedRepo.NewMongoBlockedRepo()
	sourceRepository := calendarsourceRepo.NewMongoCalendarSourceRepo()
	eventRepository := eventRepo.NewMongoEventRepo()

	// shared result cache with explicit invalidation.
	resultCache := availability.NewResultCache(
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.RecommendationTTLSeconds)*time.Second,
	)

	// services.
	blockedStore := &availability.DefaultBlockedDateStore{
		Repo:        blockedRepository,
		Invalidator: resultCache,
	}
	calendarService := &calendar.DefaultCalendarService{
		Repo:         sourceRepository,
		Invalidator:  resultCache,
		FetchTimeout: time.Duration(config.AppConfig.SyncTimeoutSeconds) * time.Second,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		BlockedStore: blockedStore,
		Calendar:     calendarService,
		EventRepo:    eventRepository,
		Cache:        resultCache,
		WorkerCap:    config.AppConfig.SearchWorkerCap,
	}
	eventService := &event.DefaultEventService{
		Repo:        eventRepository,
		Invalidator: resultCache,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Blocked:      handlers.NewBlockedDateHandler(blockedStore),
		Calendar:     handlers.NewCalendarHandler(calendarService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Event:        handlers.NewEventHandler(eventService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker and scheduler.
	workerDeps := cron.Deps{
		BlockedStore: blockedStore,
		BlockedRepo:  blockedRepository,
		EventRepo:    eventRepository,
		Calendar:     calendarService,
		EventSvc:     eventService,
		Cache:        resultCache,
	}
	cron.InitWorker(workerDeps)
	scheduler := cron.StartScheduler(workerDeps)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
}
