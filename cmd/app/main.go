package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres/clusterrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/offerrepo"
	"dispatch/internal/adapters/out/redisdir"
	"dispatch/internal/jobs"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDB(configs)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", configs.RedisHost, configs.RedisPort),
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})

	ctx := context.Background()
	couriers, err := redisdir.NewRedisCourierDirectory(ctx, redisClient)
	if err != nil {
		log.Fatalf("Failed to connect to courier directory: %v", err)
	}
	locations, err := redisdir.NewRedisLocationDirectory(redisClient)
	if err != nil {
		log.Fatalf("Failed to create location directory: %v", err)
	}
	notifier, err := notify.NewLogNotifier(logger)
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, couriers, locations, notifier, logger)
	if err = app.Settings().Validate(); err != nil {
		log.Fatalf("Invalid dispatch settings: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateReassignStalledCommandHandler(),
		configs.CheckInterval,
		configs.EnableReassignment,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		RedisHost:     goDotEnvVariable("REDIS_HOST"),
		RedisPort:     goDotEnvVariable("REDIS_PORT"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0),

		MaxRetries:           intEnv("DISPATCH_MAX_RETRIES", 3),
		MaxCourierDistanceKm: floatEnv("DISPATCH_MAX_COURIER_DISTANCE_KM", 10),
		OfferExpiry:          durationEnv("DISPATCH_OFFER_EXPIRY", 2*time.Minute),
		CheckInterval:        durationEnv("DISPATCH_CHECK_INTERVAL", 30*time.Second),
		RetryDelay:           durationEnv("DISPATCH_RETRY_DELAY", time.Minute),
		PricePerKm:           floatEnv("DISPATCH_PRICE_PER_KM", 1),
		EnableReassignment:   boolEnv("DISPATCH_ENABLE_REASSIGNMENT", true),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func floatEnv(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = gormDB.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&clusterrepo.ClusterDTO{},
		&offerrepo.OfferDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateCreateDeliveryCommandHandler(),
		app.CreateAcceptOfferCommandHandler(),
		app.CreateDeclineOfferCommandHandler(),
		app.CreateCancelDeliveryCommandHandler(),
		app.CreateMarkPickedUpCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateBulkAssignCourierCommandHandler(),
		app.CreateUpdateTrackingCommandHandler(),
		app.CreateGetDeliveryQueryHandler(),
		app.CreateGetUnassignedClustersQueryHandler(),
	)
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			e.Logger.Info("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
