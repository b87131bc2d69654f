package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"a11yowl/api/routes"
	"a11yowl/internal/client"
	"a11yowl/internal/config"
	"a11yowl/internal/content"
	"a11yowl/internal/dao"
	"a11yowl/internal/database"
	"a11yowl/internal/metrics"
	"a11yowl/internal/notification"
	"a11yowl/internal/prefs"
	"a11yowl/internal/services"
	"a11yowl/internal/telemetry"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"
	"a11yowl/pkg/ratelimit"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const sweepInterval = 5 * time.Minute

type ServerOpts struct {
	Port int
	Ip   string
}

func NewServerCommand(version string) *cobra.Command {
	opts := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the A11y Owl web server",
		Long:  `Start the web server that serves the scanner pages, the live scan stream and the JSON API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			loader, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg := loader.Config()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = opts.Port
			}
			if cmd.Flags().Changed("ip") {
				cfg.Server.Host = opts.Ip
			}

			log := logger.Default()
			if !verbose {
				log.SetLevel(logger.ParseLevel(cfg.Log.Level))
			}
			if cfg.Env == "production" {
				log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, loader, cfg, log, version)
		},
	}

	serverCmd.Flags().IntVarP(&opts.Port, "port", "p", 3000, "Port to run the server on")
	serverCmd.Flags().StringVarP(&opts.Ip, "ip", "i", "0.0.0.0", "IP address to bind the server to")

	return serverCmd
}

func run(ctx context.Context, loader *config.Loader, cfg *config.Config, log *logger.Logger, version string) error {
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.Endpoint,
		Headers:        cfg.Telemetry.Headers,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		log.WithError(err).Warn("Tracing disabled")
	}

	m := metrics.New(cfg.Telemetry.ServiceName)

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier := openNotifier(cfg.Discord, log)
	defer notifier.Close()

	api := client.New(client.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, client.WithLogger(log), client.WithMetrics(m))

	limiter := ratelimit.New(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	prefService := services.NewPreferenceService(store, notifier, log)
	scanService := services.NewScanService(api, prefService,
		services.WithLimiter(limiter),
		services.WithNotifier(notifier),
		services.WithMetrics(m),
		services.WithLogger(log),
		services.WithPollSettings(services.PollSettings{
			Schedule:     poller.DefaultSchedule(),
			Timeout:      cfg.Poll.Timeout,
			TickInterval: cfg.Poll.TickInterval,
		}),
	)

	loader.OnChange(func(next *config.Config) {
		limiter.UpdateLimits(next.RateLimit.PerMinute, next.RateLimit.Burst)
		log.SetLevel(logger.ParseLevel(next.Log.Level))
		log.WithFields(logger.Fields{
			"per_minute": next.RateLimit.PerMinute,
			"burst":      next.RateLimit.Burst,
			"log_level":  next.Log.Level,
		}).Info("Configuration reloaded")
	})
	loader.Watch()

	lib, err := content.Default()
	if err != nil {
		return fmt.Errorf("loading content pages: %w", err)
	}

	router := routes.InitRouter(routes.Deps{
		ScanService:   scanService,
		PrefService:   prefService,
		Content:       lib,
		Metrics:       m,
		Logger:        log,
		ServiceName:   cfg.Telemetry.ServiceName,
		SecureCookies: cfg.Server.SecureCookies,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepers := map[string]sweeper{"rate_limit": limiter}
	if mem, ok := store.(*prefs.MemoryStore); ok {
		sweepers["preferences"] = mem
	}
	go sweep(ctx, log, sweepers)

	errChan := make(chan error, 1)
	go func() {
		log.WithFields(logger.Fields{
			"addr":    srv.Addr,
			"backend": cfg.Backend.BaseURL,
			"store":   cfg.Store.Backend,
		}).Info("Server listening")
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Server error: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Live sessions end first so their sockets close before the listener.
	if err := scanService.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Scan sessions did not finish in time")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Tracer shutdown incomplete")
	}

	log.Info("Server stopped")
	return nil
}

// openStore picks the preference backend named in the config. The returned
// func releases its connection.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (prefs.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		rdb, err := prefs.ConnectRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("addr", cfg.Store.RedisAddr).Info("Using redis preference store")
		return prefs.NewRedisStore(rdb, cfg.Store.KeyPrefix, cfg.Store.TTL), func() { _ = rdb.Close() }, nil

	case config.StorePostgres:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("getting database handle: %w", err)
		}
		log.WithField("host", cfg.Database.Host).Info("Using postgres preference store")
		return prefs.NewSQLStore(dao.NewPreferenceDAO(db)), func() { _ = sqlDB.Close() }, nil

	default:
		log.Info("Using in-memory preference store")
		return prefs.NewMemoryStore(cfg.Store.TTL), func() {}, nil
	}
}

func openNotifier(cfg config.DiscordConfig, log *logger.Logger) notification.Notifier {
	if cfg.Token == "" || cfg.ChannelID == "" {
		log.Info("DISCORD_TOKEN not set - Discord notifications disabled")
		return notification.NopNotifier{}
	}

	discord, err := notification.NewNotificationClient(cfg.Token, cfg.ChannelID)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize Discord client")
		return notification.NopNotifier{}
	}
	log.Info("Discord notifications enabled")
	return discord
}

// sweeper drops idle or expired in-memory state.
type sweeper interface {
	Sweep() int
}

func sweep(ctx context.Context, log *logger.Logger, sweepers map[string]sweeper) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for name, s := range sweepers {
				if n := s.Sweep(); n > 0 {
					log.WithFields(logger.Fields{"target": name, "removed": n}).Debug("Swept idle entries")
				}
			}
		}
	}
}
