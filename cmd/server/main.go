package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/notifier"
	"github.com/yukikurage/task-tracker-api/internal/realtime"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/routes"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Token revocation is shared through Redis when it is configured
	var denylist auth.Denylist
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", addr, err)
		}
		log.Printf("Token denylist backed by Redis (%s)", addr)
		denylist = auth.NewRedisDenylist(client)
	} else {
		log.Println("REDIS_HOST not set; using in-process token denylist")
		denylist = auth.NewMemoryDenylist()
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	mailer := notifier.NewMailNotifier(notifier.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		AppURL:   cfg.AppURL,
		Timeout:  cfg.SMTPTimeout,
	})
	if !cfg.MailConfigured() {
		log.Println("SMTP not configured; email notifications will report failure")
	}

	hub := realtime.NewHub()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	updateRepo := repository.NewTaskUpdateRepository(db)
	courierRepo := repository.NewCourierRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, userService, tokens, denylist)
	taskService := services.NewTaskService(taskRepo, updateRepo, userRepo, hub)
	courierService := services.NewCourierService(courierRepo)
	dashboardService := services.NewDashboardService(taskRepo, userRepo)
	reportService := services.NewReportService(taskRepo, updateRepo, userRepo, mailer)

	seeded, err := userService.EnsureAdministrator(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to seed administrator: %v", err)
	}
	if seeded {
		log.Printf("Seeded administrator account %q", cfg.AdminUsername)
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config:           cfg,
		Tokens:           tokens,
		Denylist:         denylist,
		Hub:              hub,
		Store:            store,
		AuthService:      authService,
		UserService:      userService,
		TaskService:      taskService,
		CourierService:   courierService,
		DashboardService: dashboardService,
		ReportService:    reportService,
	})

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
