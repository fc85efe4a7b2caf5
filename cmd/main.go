package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jwt-auth-server/config"
	_ "jwt-auth-server/docs"
	"jwt-auth-server/internal/handler"
	"jwt-auth-server/internal/repository"
	"jwt-auth-server/internal/security"
	"jwt-auth-server/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title JWT-auth-server
// @version 1.0
// @description REST API аутентификации с ротацией refresh токенов

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("файл .env не найден, используется окружение процесса")
	}

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
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.UserCache)*time.Second)

	jwtService := security.NewJWTService(&cfg.JWT)
	authService := service.NewAuthenticationService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, cacheRepo)

	authHandler := handler.NewAuthenticationHandler(authService, &cfg.Cookie)
	userHandler := handler.NewUserHandler(userService)

	// браузерный клиент живет на другом origin и шлет refresh cookie,
	// поэтому CORS с credentials обязателен
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORS.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, userHandler, jwtService)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, authHandler *handler.AuthenticationHandler, userHandler *handler.UserHandler, jwtService *security.JWTService) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/refresh", authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(security.JWTMiddleware(jwtService))
				r.Get("/me", userHandler.GetCurrentUser)
				r.Head("/me", userHandler.GetCurrentUserHead)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService))
			r.Post("/protected", userHandler.GetProtectedData)
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
