package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginprometheus "github.com/zsais/go-gin-prometheus"

	"prompt-maker/internal/config"
	"prompt-maker/internal/firebase"
	"prompt-maker/internal/gemini"
	"prompt-maker/internal/handler"
	"prompt-maker/internal/logger"
	"prompt-maker/internal/middleware"
	"prompt-maker/internal/repository"
	"prompt-maker/internal/service"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	zap.ReplaceGlobals(zapLogger)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	ctx := context.Background()

	// --- Firebase (best-effort: без учетных данных сервис продолжает работу,
	// но эндпоинты сохранения отвечают 401/503) ---
	var (
		verifyToken handler.TokenVerifier
		promptRepo  repository.PromptRepository
	)
	credentials, err := firebase.ResolveServiceAccount(cfg.FirebaseServiceAccount, cfg.FirebaseCredentialsFile)
	if err != nil {
		zap.L().Error("Failed to resolve Firebase service account, auth endpoints disabled", zap.Error(err))
	} else if credentials == nil {
		zap.L().Warn("No Firebase service account credentials found, auth endpoints disabled")
	} else {
		clients, err := firebase.NewClients(ctx, credentials, zapLogger.Named("Firebase"))
		if err != nil {
			zap.L().Error("Firebase initialization failed, auth endpoints disabled", zap.Error(err))
		} else {
			authClient := clients.Auth
			verifyToken = func(ctx context.Context, idToken string) (string, error) {
				token, err := authClient.VerifyIDToken(ctx, idToken)
				if err != nil {
					return "", err
				}
				return token.UID, nil
			}
			promptRepo = repository.NewFirestorePromptRepository(clients.Firestore)
			defer clients.Firestore.Close()
		}
	}

	// --- Gemini client (отсутствие ключа не фатально: релей откажет с
	// ошибкой конфигурации без сетевых вызовов) ---
	var generator service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(gemini.Config{
			APIKey:         cfg.GeminiAPIKey,
			ModelName:      cfg.GeminiModel,
			BaseURL:        cfg.GeminiBaseURL,
			TimeoutSeconds: cfg.GeminiTimeoutSeconds,
		})
		if err != nil {
			zap.L().Error("Failed to create Gemini client", zap.Error(err))
		} else {
			generator = geminiClient
			zap.L().Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))
		}
	} else {
		zap.L().Warn("GEMINI_API_KEY is not set, /generate will fail with a configuration error")
	}

	// --- Dependency Injection ---
	promptService := service.NewPromptService(generator, zapLogger)
	promptHandler := handler.NewPromptHandler(promptService, promptRepo, verifyToken)

	// --- Rate Limiter Middleware (in-memory, per IP) ---
	var rateLimitMiddleware gin.HandlerFunc
	if cfg.GenerateRateLimit > 0 {
		rateLimitStore := rateli.InMemoryStore(&rateli.InMemoryOptions{
			Rate:  time.Minute,
			Limit: cfg.GenerateRateLimit,
		})
		rateLimitMiddleware = rateli.RateLimiter(rateLimitStore, &rateli.Options{
			ErrorHandler: func(c *gin.Context, info rateli.Info) {
				zap.L().Warn("Rate limit exceeded",
					zap.String("clientIP", c.ClientIP()),
					zap.Time("resetTime", info.ResetTime),
				)
				c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
			},
			KeyFunc: func(c *gin.Context) string {
				return c.ClientIP()
			},
		})
		zap.L().Info("Rate limiter middleware initialized", zap.Uint("limitPerMinute", cfg.GenerateRateLimit))
	}

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(zapLogger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	// Configure CORS Middleware
	corsConfig := cors.DefaultConfig()
	if allowedOrigins := cfg.GetAllowedOrigins(); len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Health Check Endpoint
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Register Application Routes
	promptHandler.RegisterRoutes(router, rateLimitMiddleware)

	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
