package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/arturffsantos/gympoint/api/swagger"
	"github.com/arturffsantos/gympoint/internal/handler"
	"github.com/arturffsantos/gympoint/internal/mail"
	"github.com/arturffsantos/gympoint/internal/migrations"
	"github.com/arturffsantos/gympoint/internal/repository"
	"github.com/arturffsantos/gympoint/internal/service"
	"github.com/arturffsantos/gympoint/pkg/cache"
	"github.com/arturffsantos/gympoint/pkg/config"
	"github.com/arturffsantos/gympoint/pkg/database"
	"github.com/arturffsantos/gympoint/pkg/logger"
	corsmiddleware "github.com/arturffsantos/gympoint/pkg/middleware/cors"
	reqidmiddleware "github.com/arturffsantos/gympoint/pkg/middleware/requestid"
)

// @title Gympoint API
// @version 1.0.0
// @description Gym management backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := migrations.Run(db, cfg.Database.MigrationsDir); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	mongoDB, err := database.NewMongo(cfg.Mongo)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to mongo", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, plan cache disabled", "error", err)
		redisClient = nil
	}

	publisher, err := mail.NewPublisher(cfg.Broker)
	if err != nil {
		logr.Sugar().Warnw("broker unavailable, welcome mails will not be queued", "error", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	metrics := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient)
		cacheService = service.NewCacheService(cacheRepo, metrics, cfg.Plans.CacheTTL, logr, cfg.Plans.CacheEnabled)
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	planRepo := repository.NewPlanRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	helpOrderRepo := repository.NewHelpOrderRepository(mongoDB)

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	userService := service.NewUserService(userRepo, nil, logr)
	studentService := service.NewStudentService(studentRepo, nil, logr)
	planService := service.NewPlanService(planRepo, cacheService, nil, logr)
	registrationService := service.NewRegistrationService(registrationRepo, planRepo, studentRepo, welcomePublisher(publisher), nil, logr)
	checkinService := service.NewCheckinService(checkinRepo, logr)
	helpOrderService := service.NewHelpOrderService(helpOrderRepo, studentRepo, nil, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Users:         handler.NewUserHandler(userService),
		Students:      handler.NewStudentHandler(studentService),
		Plans:         handler.NewPlanHandler(planService),
		Registrations: handler.NewRegistrationHandler(registrationService),
		Checkins:      handler.NewCheckinHandler(checkinService),
		HelpOrders:    handler.NewHelpOrderHandler(helpOrderService),
	}, authService, metrics)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// welcomePublisher keeps the registration service free of nil checks when the
// broker is down at startup.
func welcomePublisher(p *mail.Publisher) service.WelcomePublisher {
	if p == nil {
		return nil
	}
	return p
}
