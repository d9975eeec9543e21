package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-share-server/config"
	_ "course-share-server/docs"
	"course-share-server/internal/handler"
	"course-share-server/internal/notifier"
	"course-share-server/internal/repository"
	"course-share-server/internal/security"
	"course-share-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Course Share API
// @version 1.0
// @description Сервис обмена учебными материалами: аутентификация, курсы, файлы

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	counterRepo := repository.NewCourseCodeCounterRepository(db)
	fileRepo := repository.NewFileResourceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	jwtService := security.NewJWTService(&cfg.JWT)
	refreshService := service.NewRefreshTokenService(refreshRepo, &cfg.Auth)
	blacklistService := service.NewBlacklistService(blacklistRepo, jwtService, &cfg.BlacklistConfig)
	blacklistService.StartSweeper(ctx)

	authService := service.NewAuthenticationService(userRepo, jwtService, refreshService, blacklistService)
	userService := service.NewUserService(userRepo, notifier.NewEmailNotifier(&cfg.Webhook))
	codeService := service.NewCourseCodeService(counterRepo)
	courseService := service.NewCourseService(courseRepo, categoryRepo, codeService, cacheRepo)
	fileService := service.NewFileResourceService(fileRepo, courseRepo, s3Service, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	authHandler := handler.NewAuthenticationHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	courseHandler := handler.NewCourseHandler(courseService)
	fileHandler := handler.NewFileResourceHandler(fileService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, blacklistService)
	setupUserRoutes(router, userHandler, jwtService, blacklistService)
	setupCourseRoutes(router, courseHandler, fileHandler, jwtService, blacklistService)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, blacklist security.BlacklistChecker) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, blacklist))
			r.Get("/me", h.GetCurrentUser)
		})
		r.Group(func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/refresh", h.RefreshToken)
			r.Post("/logout", h.Logout)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService, blacklist security.BlacklistChecker) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.RegisterUser)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, blacklist))
			r.Get("/users/me", h.GetProfile)
		})
	})
}

func setupCourseRoutes(r chi.Router, h *handler.CourseHandler, fh *handler.FileResourceHandler, jwtService *security.JWTService, blacklist security.BlacklistChecker) {
	r.Route("/api/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Get("/{course_code}", h.GetCourse)
		r.Get("/{course_code}/files", fh.ListFiles)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, blacklist))
			r.Post("/", h.CreateCourse)
			r.Put("/{course_code}", h.UpdateCourse)
			r.Delete("/{course_code}", h.DeleteCourse)
			r.Post("/{course_code}/files", fh.CreateFile)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, blacklist))
			r.Post("/", h.CreateCategory)
		})
	})

	r.Route("/api/files", func(r chi.Router) {
		r.Get("/{file_uuid}", fh.GetFile)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, blacklist))
			r.Delete("/{file_uuid}", fh.DeleteFile)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
