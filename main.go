package main

import (
	"net/http"

	"pickem-app-go/config"
	"pickem-app-go/database"
	"pickem-app-go/handlers"
	"pickem-app-go/logging"
	"pickem-app-go/middleware"
	"pickem-app-go/services"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logging.Warnf("Database test failed: %v", err)
	}

	// Repositories
	leagueRepo := database.NewMongoLeagueRepository(db)
	pickRepo := database.NewMongoPickRepository(db)
	lineRepo := database.NewMongoLineRepository(db)
	resultRepo := database.NewMongoResultRepository(db)
	scoreRepo := database.NewMongoWeeklyScoreRepository(db)

	// Scoring orchestrator: one shared aggregation behind both the
	// finalization-triggered server path and the on-demand client path.
	orchestrator := services.NewScoringOrchestrator(leagueRepo, pickRepo, lineRepo, resultRepo, scoreRepo)

	// Server-path triggers: change stream plus feed polling.
	watcher := services.NewGameFinalWatcher(db, orchestrator)
	watcher.StartWatching()

	if cfg.Feed.Enabled {
		limiter := services.NewRateLimiter(cfg.Feed.RateLimit, cfg.Feed.RateWindow)
		feed := services.NewScoreFeedService(limiter, cfg.Feed.RequestTimeout)
		lineLock := services.NewLineLockService(leagueRepo, lineRepo)
		updater := services.NewFeedUpdater(feed, resultRepo, orchestrator, cfg.App.CurrentSeason, cfg.Feed.PollInterval).
			WithLineLock(lineLock)
		updater.Start()
		defer updater.Stop()
	}

	// HTTP surface
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	scoreHandler := handlers.NewScoreHandler(orchestrator, scoreRepo, cfg.App.CurrentSeason)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.RequireAuth)
	api.HandleFunc("/leagues/{code}/scores/{week:[0-9]+}", scoreHandler.GetWeeklyScore).Methods("GET")
	api.HandleFunc("/leagues/{code}/leaderboard/{week:[0-9]+}", scoreHandler.GetWeeklyLeaderboard).Methods("GET")
	api.HandleFunc("/leagues/{code}/leaderboard", scoreHandler.GetSeasonLeaderboard).Methods("GET")
	api.HandleFunc("/debug/normalize", scoreHandler.NormalizeLine).Methods("GET")

	addr := cfg.GetServerAddress()
	logging.Infof("Server starting on %s", addr)
	logging.Fatal(http.ListenAndServe(addr, r))
}
