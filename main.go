package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"qaservice/config"
	"qaservice/handlers"
	"qaservice/middleware"
	"qaservice/repository"
	"qaservice/routes"
	"qaservice/services"

	"github.com/gin-gonic/gin"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to read before the environment")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer config.CloseDB(db)

	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Activity hub, fed through Redis when it is configured
	hub := services.NewHub()
	go hub.Run(ctx)

	var events services.EventPublisher = services.NewHubPublisher(hub)
	if redisClient := config.InitRedis(cfg); redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		events = services.NewRedisPublisher(redisClient, cfg.EventsChannel)
		go func() {
			if err := hub.Subscribe(ctx, redisClient, cfg.EventsChannel); err != nil {
				log.Printf("Redis event subscription stopped: %v", err)
			}
		}()
	}

	// Initialize services
	transactor := repository.NewTransactor(db)
	questionService := services.NewQuestionService(transactor, events)
	answerService := services.NewAnswerService(transactor, events)

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(questionService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	activityHandler := handlers.NewActivityHandler(questionService, hub)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.Use(middleware.CORS())
	routes.SetupRoutes(router, questionHandler, answerHandler, activityHandler)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Printf("Q&A API starting on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Stopping Q&A API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
