package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/simcore/internal/api"
	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/internal/scheduler"
	"github.com/wonny/simcore/internal/scheduler/jobs"
	"github.com/wonny/simcore/pkg/database"
	"github.com/wonny/simcore/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health               - Health check
  GET  /api/calendar/steps   - Discretized steps of a window
  POST /api/simulate         - Run a nested simulation

With DATABASE_URL set, trading days come from the sessions table and a daily
refresh job keeps it current; otherwise the weekday calendar is generated in
memory. With REDIS_ENABLED, resolved schedules are cached.

Example:
  go run ./cmd/simcore api
  go run ./cmd/simcore api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, locator, err := bootstrap()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// Prefer database-backed trading days when configured.
	var repo *calendar.SessionRepository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		repo = calendar.NewSessionRepository(db.Pool)
		locator = calendar.NewDBSource(repo, cfg.Calendar)
		log.Info("Using database-backed trading calendar")
	}

	// Layer the schedule cache on top when Redis is available.
	var cached *calendar.CachedLocator
	if cfg.Redis.Enabled {
		rdb, err := redis.New(cfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()

		cached = calendar.NewCachedLocator(locator, redis.NewCache(rdb, "simcore"))
		locator = cached
		log.Info("Schedule caching enabled")
	}

	if repo != nil {
		sched := scheduler.New(log)
		refresh := jobs.NewCalendarRefreshJob(repo, cached, cfg.Calendar, log)
		if err := sched.AddJob(refresh); err != nil {
			return fmt.Errorf("schedule calendar refresh: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	handler := api.NewHandler(locator, log)
	router := api.NewRouter(handler, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
