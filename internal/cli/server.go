package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brain-battle/internal/app"
	"brain-battle/internal/bank"
	"brain-battle/internal/config"
	"brain-battle/internal/infra/memory"
	redissession "brain-battle/internal/infra/redis"
	"brain-battle/internal/logging"
	transport "brain-battle/internal/transport/http"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	finalPort := resolvePort(portFlag, cfg)

	service := newService(cfg, logger)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(transport.NewWSHandler(service, logger)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting quiz service", "port", finalPort, "questions", service.BankSize())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// resolvePort prefers the flag (or PORT), then server.port, then 8080.
func resolvePort(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Server.Port != "" {
		return cfg.Server.Port
	}
	return "8080"
}

// newService wires the game service; Redis backs session liveness when configured.
func newService(cfg config.Config, logger *slog.Logger) *app.Service {
	var store app.SessionRepository = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redissession.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}

	return app.NewService(memory.NewAccountStore(), store, bank.Load(),
		app.WithQuestionsPerGame(cfg.Game.QuestionsPerGame),
		app.WithLogger(logger))
}
