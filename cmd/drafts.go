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
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect published order drafts",
	}
	cmd.AddCommand(newDraftsListCmd())
	cmd.AddCommand(newDraftsShowCmd())
	return cmd
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(schedule.DateLayout)
}

func fmtStr(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func printDraft(w io.Writer, s postgres.StoredDraft) {
	fmt.Fprintf(w, "session=%s status=%s pickup=%s/%s delivery=%s/%s updated=%s\n",
		s.SessionID, s.Status,
		fmtDate(s.Draft.PickupDate), fmtStr(s.Draft.PickupSlotID),
		fmtDate(s.Draft.DeliveryDate), fmtStr(s.Draft.DeliverySlotID),
		s.UpdatedAt.Format(time.RFC3339))
}

func newDraftsListCmd() *cobra.Command {
	var (
		status string
		limit  int
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "List drafts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != postgres.DraftStatusDraft && status != postgres.DraftStatusSubmitted {
				return fmt.Errorf("invalid --status %q (want %s or %s)", status, postgres.DraftStatusDraft, postgres.DraftStatusSubmitted)
			}
			return withDB(func(ctx context.Context, _ config.Config, d *db.DB, _ *zap.Logger) error {
				ds, err := postgres.NewDraftRepo(d).ListByStatus(ctx, status, limit)
				if err != nil {
					return err
				}
				for _, s := range ds {
					printDraft(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&status, "status", postgres.DraftStatusSubmitted, "draft or submitted")
	c.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	return c
}

func newDraftsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session's draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, _ config.Config, d *db.DB, _ *zap.Logger) error {
				s, err := postgres.NewDraftRepo(d).Get(ctx, args[0])
				if err != nil {
					if db.IsNotFound(err) {
						return fmt.Errorf("no draft for session %q", args[0])
					}
					return err
				}
				printDraft(cmd.OutOrStdout(), s)
				for _, msg := range schedule.Errors(s.Draft) {
					fmt.Fprintf(cmd.OutOrStdout(), "  missing: %s\n", msg)
				}
				return nil
			})
		},
	}
}
