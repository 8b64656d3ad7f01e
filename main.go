// main.go - Entry point for the calorie tracker backend server

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calorie-backend/auth"      // Registration, login, tokens
	"calorie-backend/config"    // Environment configuration
	"calorie-backend/database"  // SQLite connection and migrations
	"calorie-backend/events"    // Saved-entry event fan-out
	"calorie-backend/foodlog"   // Food entries and streaks
	"calorie-backend/handlers"  // HTTP handlers and routes
	"calorie-backend/mqtt"      // Optional MQTT event sink
	"calorie-backend/nutrition" // Estimator and external nutrition sources
	"calorie-backend/realtime"  // Websocket event sink

	"github.com/gin-gonic/gin"
)

func main() {
	// STEP 1: Load configuration and set up logging
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("configuration loaded", "config", cfg.String())
	gin.SetMode(cfg.GinMode)

	// STEP 2: Open the database and build the services
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer, err := buildAnalyzer(ctx, cfg, log)
	if err != nil {
		log.Error("nutrition setup failed", "error", err)
		os.Exit(1)
	}
	authSvc := auth.NewService(db, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), log)
	store := foodlog.NewStore(db, cfg.Location(), log)

	// STEP 3: Event sinks (websocket clients always, MQTT when a broker is configured)
	hub := realtime.NewHub(log)
	sinks := []events.Publisher{hub}
	if cfg.MQTTBroker != "" {
		client, err := mqtt.Connect(cfg.MQTTBroker, "calorie-backend-"+cfg.Port, cfg.MQTTTopic, log)
		if err != nil {
			log.Warn("mqtt unavailable, continuing without it", "error", err) // Events are best effort
		} else {
			defer client.Close()
			sinks = append(sinks, client)
		}
	}

	// STEP 4: Routes
	fanout := events.NewFanout(log, sinks...)
	router := handlers.NewRouter(handlers.Deps{
		Auth:     authSvc,
		Analyzer: analyzer,
		Store:    store,
		Events:   fanout,
		Hub:      hub,
		Log:      log,
	})

	// STEP 5: Serve until a signal arrives, then drain in-flight requests
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	fanout.Wait() // Deliver events from the last saves before the broker disconnects
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// buildAnalyzer picks the keyword table, text source and image recognizer from config.
func buildAnalyzer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*nutrition.Analyzer, error) {
	var table nutrition.Table
	if cfg.NutritionTablePath != "" {
		t, err := nutrition.LoadTable(cfg.NutritionTablePath)
		if err != nil {
			return nil, err
		}
		table = t
	}
	est := nutrition.NewEstimator(table)
	log.Info("nutrition table loaded", "foods", est.Size())

	opts := []nutrition.Option{
		nutrition.WithLogger(log),
		nutrition.WithTimeout(cfg.ExternalTimeout),
		nutrition.WithBarcodeSource(nutrition.NewOpenFoodFacts(cfg.OpenFoodFactsURL, cfg.ExternalTimeout)),
	}

	switch cfg.TextAnalyzer {
	case "mock":
		opts = append(opts, nutrition.WithTextSource(nutrition.MockText{}))
	case "spoonacular":
		opts = append(opts, nutrition.WithTextSource(
			nutrition.NewSpoonacular(cfg.SpoonacularURL, cfg.SpoonacularAPIKey, cfg.ExternalTimeout)))
	}

	switch cfg.Recognizer {
	case "http":
		opts = append(opts, nutrition.WithRecognizer(nutrition.NewPredictClient(cfg.RecognizerURL, cfg.ExternalTimeout)))
	case "rekognition":
		rk, err := nutrition.NewRekognition(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nutrition.WithRecognizer(rk))
	}
	return nutrition.NewAnalyzer(est, opts...), nil
}
