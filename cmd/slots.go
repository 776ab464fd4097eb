package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/laundry-scheduler/internal/config"
	"github.com/example/laundry-scheduler/internal/db"
	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"github.com/example/laundry-scheduler/internal/infrastructure/postgres"
	"github.com/example/laundry-scheduler/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Manage the time-slot catalogue (non-UI)",
	}
	cmd.AddCommand(newSlotsListCmd())
	cmd.AddCommand(newSlotsAddCmd())
	cmd.AddCommand(newSlotsEnableCmd(true))
	cmd.AddCommand(newSlotsEnableCmd(false))
	cmd.AddCommand(newSlotsAvailableCmd())
	return cmd
}

// withDB runs fn against a migrated database built from the environment.
func withDB(fn func(ctx context.Context, cfg config.Config, d *db.DB, log *zap.Logger) error) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	d, err := openDB(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(ctx, cfg, d, log)
}

func printSlot(w io.Writer, s schedule.TimeSlot) {
	fmt.Fprintf(w, "id=%s start=%s end=%s enabled=%t label=%q\n", s.ID, s.StartTime, s.EndTime, s.Enabled, s.Label)
}

func newSlotsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogue slots as sessions will see them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, _ config.Config, d *db.DB, log *zap.Logger) error {
				raw, err := postgres.NewSlotRepo(d).ListSlots(ctx)
				if err != nil {
					return err
				}
				cat, rejected := schedule.NewCatalogue(raw)
				for _, s := range cat {
					printSlot(cmd.OutOrStdout(), s)
				}
				for _, s := range rejected {
					fmt.Fprintf(cmd.ErrOrStderr(), "ignored invalid slot id=%q start=%q end=%q\n", s.ID, s.StartTime, s.EndTime)
				}
				return nil
			})
		},
	}
}

func newSlotsAddCmd() *cobra.Command {
	var s schedule.TimeSlot

	c := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, rejected := schedule.NewCatalogue([]schedule.TimeSlot{s}); len(rejected) > 0 {
				return fmt.Errorf("invalid slot: want HH:MM times with --start before --end")
			}
			return withDB(func(ctx context.Context, _ config.Config, d *db.DB, log *zap.Logger) error {
				if err := postgres.NewSlotRepo(d).Upsert(ctx, s); err != nil {
					return err
				}
				log.Info("slots: saved", zap.String("slot_id", s.ID))
				fmt.Fprintf(cmd.OutOrStdout(), "saved slot id=%s\n", s.ID)
				return nil
			})
		},
	}

	c.Flags().StringVar(&s.ID, "id", "", "slot id")
	c.Flags().StringVar(&s.Label, "label", "", "display label, e.g. \"9:00 AM - 11:00 AM\"")
	c.Flags().StringVar(&s.StartTime, "start", "", "start time HH:MM")
	c.Flags().StringVar(&s.EndTime, "end", "", "end time HH:MM")
	c.Flags().BoolVar(&s.Enabled, "enabled", true, "offer this slot for same-day pickup")

	_ = c.MarkFlagRequired("id")
	_ = c.MarkFlagRequired("label")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
	return c
}

func newSlotsEnableCmd(enabled bool) *cobra.Command {
	use, short := "enable", "Offer a slot for same-day pickup"
	if !enabled {
		use, short = "disable", "Stop offering a slot for same-day pickup"
	}
	return &cobra.Command{
		Use:   use + " <slot-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, _ config.Config, d *db.DB, log *zap.Logger) error {
				repo := postgres.NewSlotRepo(d)
				if err := repo.SetEnabled(ctx, args[0], enabled); err != nil {
					if db.IsNotFound(err) {
						return fmt.Errorf("slot %q not found", args[0])
					}
					return err
				}
				s, err := repo.Get(ctx, args[0])
				if err != nil {
					return err
				}
				log.Info("slots: updated", zap.String("slot_id", s.ID), zap.Bool("enabled", s.Enabled))
				printSlot(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func newSlotsAvailableCmd() *cobra.Command {
	var (
		date       string
		role       string
		pickupDate string
		pickupSlot string
	)

	c := &cobra.Command{
		Use:   "available",
		Short: "Show which slots a customer would be offered on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := schedule.ParseRole(role)
			if err != nil {
				return err
			}
			return withDB(func(ctx context.Context, cfg config.Config, d *db.DB, log *zap.Logger) error {
				raw, err := postgres.NewSlotRepo(d).ListSlots(ctx)
				if err != nil {
					return err
				}
				cat, _ := schedule.NewCatalogue(raw)
				engine := schedule.NewEngine(cat, schedule.NewCalendar(time.Now(), cfg.Timezone))

				day, err := engine.Calendar.ParseDate(date)
				if err != nil {
					return err
				}

				// replay the pickup side so delivery answers match a real session
				var draft schedule.OrderDraft
				if pickupDate != "" {
					pd, err := engine.Calendar.ParseDate(pickupDate)
					if err != nil {
						return err
					}
					if draft, err = engine.SelectPickupDate(draft, &pd); err != nil {
						return err
					}
					if pickupSlot != "" {
						if draft, err = engine.SelectPickupSlot(draft, pickupSlot); err != nil {
							return err
						}
					}
				}

				for _, s := range engine.AvailableSlots(&day, r, draft) {
					printSlot(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}

	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD")
	c.Flags().StringVar(&role, "role", "pickup", "pickup or delivery")
	c.Flags().StringVar(&pickupDate, "pickup-date", "", "pickup date YYYY-MM-DD (delivery queries)")
	c.Flags().StringVar(&pickupSlot, "pickup-slot", "", "pickup slot id (delivery queries)")
	_ = c.MarkFlagRequired("date")
	return c
}
