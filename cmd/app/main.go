package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"courseplatform/internal/application/usecase"
	"courseplatform/internal/config"
	"courseplatform/internal/domain"
	"courseplatform/internal/infrastructure/ai"
	"courseplatform/internal/infrastructure/broker"
	"courseplatform/internal/infrastructure/cache"
	"courseplatform/internal/infrastructure/email"
	"courseplatform/internal/infrastructure/oauth"
	"courseplatform/internal/infrastructure/repository"
	"courseplatform/internal/infrastructure/security"
	"courseplatform/internal/infrastructure/youtube"
	"courseplatform/internal/middleware"
	handlers "courseplatform/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError — чтобы ловить gorm.ErrDuplicatedKey вместо сырых ошибок драйвера
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Lesson{},
		&domain.Quiz{},
		&domain.QuizQuestion{},
		&domain.Resource{},
		&domain.Enrollment{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// 1. Инфраструктура
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db, rdb)
	tokenCache := cache.NewTokenCache(rdb)
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	emailSender := email.NewEmailSender(cfg.SendgridAPIKey, cfg.SMTPEmail, cfg.FrontendURL)
	exchanger := oauth.NewExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret,
		cfg.GithubClientID, cfg.GithubClientSecret, cfg.OAuthRedirectURL)
	provider := ai.NewProvider(cfg.OpenAIAPIKey, cfg.AnthropicAPIKey)
	videos := youtube.NewClient(cfg.YoutubeAPIKey)
	progressBroker := broker.NewProgressBroker(rdb)

	// 2. Use case'ы
	authUC := usecase.NewAuthUseCase(userRepo, tokenCache, hasher, tokenManager, emailSender, exchanger)
	courseUC := usecase.NewCourseUseCase(courseRepo)
	generationUC := usecase.NewGenerationUseCase(courseRepo, provider, videos)

	// 3. Хендлеры
	authHandler := handlers.NewAuthHandler(authUC)
	userHandler := handlers.NewUserHandler(userRepo)
	courseHandler := handlers.NewCourseHandler(courseUC)
	generationHandler := handlers.NewGenerationHandler(generationUC, progressBroker)

	rateLimiter := middleware.NewRateLimiter(rdb)

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")
	if cfg.AllowedOrigins == "" {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	// 4. Роутер
	router := handlers.NewRouter(authHandler, userHandler, courseHandler,
		generationHandler, rateLimiter, authUC, allowedOrigins)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Course platform running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
