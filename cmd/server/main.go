package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/quizbuzz/quizbuzz/internal/api"
	"github.com/quizbuzz/quizbuzz/internal/factory"
	"github.com/quizbuzz/quizbuzz/internal/services/game"
	"github.com/quizbuzz/quizbuzz/internal/services/session"
)

const releaseVersion = "1.0.0"

type config struct {
	bind          string
	port          int
	corsOrigin    string
	gmPassword    string
	maxPlayers    int
	sweepInterval time.Duration
	inactiveAfter time.Duration
	verbose       bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxPlayers < 1 {
		return fmt.Errorf("invalid max-players (must be at least 1): %d", c.maxPlayers)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZBUZZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizbuzz",
		Short:         "A real-time buzzer server for quiz nights: one game master, up to five players, first press wins.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUIZBUZZ_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 3001, "port to listen on (env: QUIZBUZZ_PORT)")
	fs.StringVar(&cfg.corsOrigin, "cors-origin", "", "origin allowed to open websockets; empty allows any (env: QUIZBUZZ_CORS_ORIGIN)")
	fs.StringVar(&cfg.gmPassword, "gm-password", "", "shared game master password; empty lets each GM pick their own (env: QUIZBUZZ_GM_PASSWORD)")
	fs.IntVar(&cfg.maxPlayers, "max-players", game.DefaultConfig().MaxPlayers, "maximum players per session (env: QUIZBUZZ_MAX_PLAYERS)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", session.DefaultConfig().SweepInterval, "how often idle sessions are checked (env: QUIZBUZZ_SWEEP_INTERVAL)")
	fs.DurationVar(&cfg.inactiveAfter, "inactive-after", session.DefaultConfig().InactiveAfter, "idle time before a session is removed (env: QUIZBUZZ_INACTIVE_AFTER)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: QUIZBUZZ_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizbuzz v{{.Version}}\n")

	return cmd
}

func run(ctx context.Context, cfg *config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	app := factory.New(factory.Config{
		GameConfig: game.Config{
			MaxPlayers:       cfg.maxPlayers,
			LegacyGMPassword: cfg.gmPassword,
		},
		StoreConfig: session.Config{
			SweepInterval: cfg.sweepInterval,
			InactiveAfter: cfg.inactiveAfter,
		},
		AllowedOrigin: cfg.corsOrigin,
		Logger:        logger,
	})

	app.Start()
	defer app.Close()

	router := api.NewRouter(api.RouterConfig{
		Logger:  logger,
		Gateway: app.Gateway,
		Store:   app.Store,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(router, serverConfig, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func main() {
	cfg := &config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(context.Background()))
}
