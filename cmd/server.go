package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/laundry-scheduler/internal/application/usecases"
	"github.com/example/laundry-scheduler/internal/config"
	"github.com/example/laundry-scheduler/internal/db"
	"github.com/example/laundry-scheduler/internal/infrastructure/postgres"
	"github.com/example/laundry-scheduler/internal/interfaces/web"
	"github.com/example/laundry-scheduler/internal/logging"
	"github.com/example/laundry-scheduler/internal/migrate"
	"github.com/example/laundry-scheduler/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the scheduling API and the idle session sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := openDB(ctx, cfg, log, migrateUp)
			if err != nil {
				return err
			}
			defer d.Close()

			slots := postgres.NewSlotRepo(d)
			drafts := postgres.NewDraftRepo(d)

			// sessions outlive individual requests; publishes are bounded by ctx
			sessions := usecases.NewSessionStore(ctx, usecases.SessionDeps{
				Source:    slots,
				Publisher: drafts,
				Submitter: drafts,
				Location:  cfg.Timezone,
				Debounce:  cfg.PublishDebounce,
				Log:       log,
			})

			sweeper := &scheduler.Scheduler{
				Sessions: sessions,
				Interval: cfg.SweepInterval,
				Idle:     cfg.SessionIdle,
				Log:      log,
			}
			sweepDone := make(chan struct{})
			go func() {
				defer close(sweepDone)
				_ = sweeper.Run(ctx)
			}()

			ws := web.New(
				web.NewSessionManager(cfg.CookieHashKey, cfg.CookieBlockKey),
				sessions,
				log,
				web.Options{AllowedOrigins: cfg.AllowedOrigins, RateLimitPerSecond: cfg.RateLimitPerSecond},
			)
			err = web.Start(ctx, cfg.ListenAddr, ws.Routes(), log)
			cancel()
			<-sweepDone
			return err
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

// openDB connects and, when asked, brings the schema up to date.
func openDB(ctx context.Context, cfg config.Config, log *zap.Logger, migrateUp bool) (*db.DB, error) {
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if migrateUp {
		if _, err := migrate.Up(ctx, d, log); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}
