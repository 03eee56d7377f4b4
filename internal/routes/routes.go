package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/realtime"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/storage"
)

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Config   *config.Config
	Tokens   *auth.TokenManager
	Denylist auth.Denylist
	Hub      *realtime.Hub
	Store    *storage.LocalStore

	AuthService      *services.AuthService
	UserService      *services.UserService
	TaskService      *services.TaskService
	CourierService   *services.CourierService
	DashboardService *services.DashboardService
	ReportService    *services.ReportService
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	updateHandler := handlers.NewTaskUpdateHandler(deps.TaskService, deps.Store)
	courierHandler := handlers.NewCourierHandler(deps.CourierService)
	dashboardHandler := handlers.NewDashboardHandler(deps.DashboardService)
	notificationHandler := handlers.NewNotificationHandler(deps.ReportService)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)

	requireAuth := middleware.RequireAuth(deps.Tokens, deps.Denylist, deps.UserService)
	requireAdmin := middleware.RequireAdministrator()
	requireTaskAccess := middleware.RequireTaskAccess(deps.TaskService, "id")
	requireUpdateAccess := middleware.RequireTaskAccess(deps.TaskService, "taskId")

	// credential endpoints are throttled per client IP
	throttle := func(c *gin.Context) { c.Next() }
	if cfg.RateLimitEnabled {
		throttle = middleware.RateLimit(cfg.RateLimitRPM, cfg.RateLimitBurst)
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	if deps.Store != nil {
		r.Static(storage.PublicPrefix, deps.Store.Dir())
	}

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", throttle, authHandler.Register)
			authRoutes.POST("/login", throttle, authHandler.Login)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
			authRoutes.POST("/logout", requireAuth, authHandler.Logout)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/employees", userHandler.ListEmployees)
			users.POST("", requireAdmin, userHandler.CreateUser)
			users.GET("", requireAdmin, userHandler.ListUsers)
			users.GET("/:id", requireAdmin, userHandler.GetUser)
			users.PUT("/:id", requireAdmin, userHandler.UpdateUser)
			users.DELETE("/:id", requireAdmin, userHandler.DeactivateUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/my-tasks", taskHandler.ListMyTasks)
			tasks.GET("/:id", requireTaskAccess, taskHandler.GetTask)
			tasks.POST("", requireAdmin, taskHandler.CreateTask)
			tasks.GET("", requireAdmin, taskHandler.ListTasks)
			tasks.PUT("/:id", requireAdmin, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireAdmin, taskHandler.DeleteTask)
		}

		updates := api.Group("/task-updates")
		updates.Use(requireAuth)
		{
			updates.POST("", updateHandler.SubmitUpdate)
			updates.GET("/:taskId", requireUpdateAccess, updateHandler.ListUpdates)
		}

		couriers := api.Group("/couriers")
		couriers.Use(requireAuth)
		{
			couriers.POST("", courierHandler.CreateCourier)
			couriers.GET("", courierHandler.ListCouriers)
			couriers.GET("/:id", courierHandler.GetCourier)
			couriers.PUT("/:id", courierHandler.UpdateCourier)
			couriers.DELETE("/:id", courierHandler.DeleteCourier)
		}

		dashboard := api.Group("/dashboard")
		dashboard.Use(requireAuth)
		{
			dashboard.GET("/admin", requireAdmin, dashboardHandler.AdminDashboard)
			dashboard.GET("/employee", dashboardHandler.EmployeeDashboard)
		}

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.POST("/send-reminders", requireAdmin, notificationHandler.SendReminders)
			notifications.POST("/daily-report", notificationHandler.SendDailyReport)
			notifications.POST("/weekly-report", notificationHandler.SendWeeklyReport)
			notifications.GET("/report-stats", notificationHandler.ReportStats)
		}

		api.GET("/ws", requireAuth, wsHandler.Serve)
	}

	return r
}
