package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/iyaya-backend/internal/config"
	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/http/handlers"
	"github.com/ignatzorin/iyaya-backend/internal/http/middleware"
	"github.com/ignatzorin/iyaya-backend/internal/metrics"
)

// Handlers все HTTP обработчики приложения.
type Handlers struct {
	Health   *handlers.HealthHandler
	Profile  *handlers.ProfileHandler
	Users    *handlers.AdminUserHandler
	Jobs     *handlers.AdminJobHandler
	Bookings *handlers.AdminBookingHandler
	Payments *handlers.PaymentHandler
	Reports  *handlers.ReportHandler
	Audit    *handlers.AuditHandler
	Settings *handlers.SettingsHandler
}

// Deps инфраструктура, нужная middleware.
type Deps struct {
	Actors       middleware.ActorResolver
	Maintenance  middleware.MaintenanceChecker
	LimiterStore limiter.Store
	Metrics      *metrics.Metrics
}

func SetupRouter(cfg *config.Config, h Handlers, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	if deps.LimiterStore != nil {
		r.Use(middleware.RateLimitMiddleware(deps.LimiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	}

	r.GET("/health", h.Health.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.Actors), middleware.MaintenanceMiddleware(deps.Maintenance))
	{
		api.GET("/profile", h.Profile.GetMe)
		api.PUT("/profile/caregiver", h.Profile.UpdateCaregiverProfile)
		api.POST("/reports", h.Reports.Create)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	users := admin.Group("/users")
	{
		users.GET("", h.Users.List)
		users.POST("", h.Users.Create)
		users.POST("/bulk/status", h.Users.BulkUpdateStatus)
		users.GET("/:id", middleware.UUIDValidator("id"), h.Users.Get)
		users.PATCH("/:id/status", middleware.UUIDValidator("id"), h.Users.UpdateStatus)
		users.PATCH("/:id/role", middleware.UUIDValidator("id"), h.Users.ChangeRole)
		users.DELETE("/:id", middleware.UUIDValidator("id"), h.Users.Delete)
		users.GET("/:id/status-history", middleware.UUIDValidator("id"), h.Users.StatusHistory)
	}

	jobs := admin.Group("/jobs")
	{
		jobs.GET("", h.Jobs.List)
		jobs.GET("/:id", middleware.UUIDValidator("id"), h.Jobs.Get)
		jobs.PATCH("/:id", middleware.UUIDValidator("id"), h.Jobs.Update)
		for _, action := range []valueobject.JobAction{
			valueobject.JobApprove, valueobject.JobReject, valueobject.JobCancel,
			valueobject.JobComplete, valueobject.JobReopen,
		} {
			jobs.POST("/:id/"+string(action), middleware.UUIDValidator("id"), h.Jobs.Transition(action))
		}
	}

	bookings := admin.Group("/bookings")
	{
		bookings.GET("", h.Bookings.List)
		bookings.GET("/:id", middleware.UUIDValidator("id"), h.Bookings.Get)
		bookings.PATCH("/:id", middleware.UUIDValidator("id"), h.Bookings.Update)
		for _, action := range []valueobject.BookingAction{
			valueobject.BookingConfirm, valueobject.BookingStart,
			valueobject.BookingComplete, valueobject.BookingCancel,
		} {
			bookings.POST("/:id/"+string(action), middleware.UUIDValidator("id"), h.Bookings.Transition(action))
		}
	}

	payments := admin.Group("/payments")
	{
		payments.GET("", h.Payments.List)
		payments.GET("/:id", middleware.UUIDValidator("id"), h.Payments.Get)
		payments.PATCH("/:id/status", middleware.UUIDValidator("id"), h.Payments.UpdateStatus)
		payments.POST("/:id/refund", middleware.UUIDValidator("id"), h.Payments.Refund)
		payments.DELETE("/:id/proofs/:proofId", middleware.UUIDValidator("id", "proofId"), h.Payments.DeleteProof)
	}

	reports := admin.Group("/reports")
	{
		reports.GET("", h.Reports.List)
		reports.GET("/:id", middleware.UUIDValidator("id"), h.Reports.Get)
		reports.PATCH("/:id/status", middleware.UUIDValidator("id"), h.Reports.UpdateStatus)
	}

	admin.GET("/audit", h.Audit.List)
	admin.GET("/settings", h.Settings.Get)
	admin.PATCH("/settings", h.Settings.Update)

	return r
}
