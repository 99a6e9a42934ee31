package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gatherly/handlers"
	"gatherly/middleware"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Blocked      *handlers.BlockedDateHandler
	Calendar     *handlers.CalendarHandler
	Availability *handlers.AvailabilityHandler
	Event        *handlers.EventHandler
}

// RegisterBlockedDateRoutes registers blocked-date endpoints.
func RegisterBlockedDateRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/blocked-dates")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Blocked.ListBlockedDates)
		api.POST("", hb.Blocked.BlockDate)
		api.POST("/range", hb.Blocked.BlockRange)
		api.DELETE("/:date", hb.Blocked.UnblockDate)
	}
}

// RegisterCalendarRoutes registers calendar-source endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/calendars")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Calendar.RegisterSource)
		api.GET("", hb.Calendar.ListSources)
		api.DELETE("/:id", hb.Calendar.DeleteSource)
		api.POST("/sync", hb.Calendar.SyncSources)
	}
}

// RegisterAvailabilityRoutes registers merged-busy, slot-search and
// recommendation endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/busy", hb.Availability.GetMergedBusyIntervals)
		api.POST("/slots", hb.Availability.FindAvailableSlots)
	}
}

// RegisterEventRoutes registers event lifecycle endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Event.CreateEvent)
		api.GET("/:id", hb.Event.GetEvent)
		api.POST("/:id/join", hb.Event.JoinEvent)
		api.POST("/:id/leave", hb.Event.LeaveEvent)
		api.POST("/:id/complete", hb.Event.CompleteEvent)
		api.POST("/:id/cancel", hb.Event.CancelEvent)
		api.GET("/:id/recommendation", hb.Availability.GetDualRecommendation)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Gatherly"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBlockedDateRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterEventRoutes(r, hb)
}
