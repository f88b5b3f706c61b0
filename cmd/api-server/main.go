package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/VanZep/FeedbackBook/internal/config"
	"github.com/VanZep/FeedbackBook/internal/database"
	"github.com/VanZep/FeedbackBook/internal/handler"
	"github.com/VanZep/FeedbackBook/internal/mailer"
	"github.com/VanZep/FeedbackBook/internal/middleware"
	"github.com/VanZep/FeedbackBook/internal/repository"
	"github.com/VanZep/FeedbackBook/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Redis is optional; without it signup throttling is skipped.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
	}

	mail := mailer.NewService(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	if !mail.IsConfigured() {
		log.Println("SMTP not configured, confirmation codes will be logged instead")
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, mail, cfg.JWTSecret, cfg.AccessTokenTTL)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	auth := middleware.NewAuthMiddleware(authService, userRepo)

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.Limit(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst)))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/v1")

	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(v1.Group("/auth"),
		middleware.Throttle(rdb, "signup", cfg.SignupRateLimit),
		middleware.Throttle(rdb, "token", cfg.SignupRateLimit))

	handler.NewUserHandler(userService).RegisterRoutes(v1.Group("/users", auth.RequireAuth()), auth)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1.Group("/categories"), auth)
	handler.NewGenreHandler(genreService).RegisterRoutes(v1.Group("/genres"), auth)
	handler.NewTitleHandler(titleService).RegisterRoutes(v1.Group("/titles"), auth)
	handler.NewReviewHandler(reviewService).RegisterRoutes(v1.Group("/titles/:titleID/reviews"), auth)
	handler.NewCommentHandler(commentService).RegisterRoutes(v1.Group("/titles/:titleID/reviews/:reviewID/comments"), auth)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
