package worker

// overdue_cron.go
// Background goroutine that periodically scans pending invoices past their
// due date and enqueues payment-reminder emails. A per-invoice Redis marker
// with a 24h TTL keeps reminders to one per day.

import (
	"context"
	"fmt"
	"time"

	"cargohub/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	overdueTickInterval = 1 * time.Hour
	overdueBatchSize    = 50
	reminderMarkerTTL   = 24 * time.Hour
)

// OverdueCronConfig holds all dependencies for the reminder goroutine.
type OverdueCronConfig struct {
	BillingRepo repository.BillingRepository
	Dispatcher  *Dispatcher
	RDB         *redis.Client
}

// StartOverdueCron launches a goroutine that ticks hourly, queries overdue
// invoices, and enqueues reminder emails. It respects the context for
// graceful shutdown.
func StartOverdueCron(ctx context.Context, cfg OverdueCronConfig) {
	go func() {
		ticker := time.NewTicker(overdueTickInterval)
		defer ticker.Stop()
		log.Info().Msg("overdue_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_cron: shutting down")
				return
			case <-ticker.C:
				runOverdueSweep(ctx, cfg)
			}
		}
	}()
}

func runOverdueSweep(ctx context.Context, cfg OverdueCronConfig) {
	bills, err := cfg.BillingRepo.ListOverdue(ctx, time.Now().UTC(), overdueBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: query failed")
		return
	}
	for i := range bills {
		bill := &bills[i]
		if bill.Client == nil || bill.Client.Email == "" {
			continue
		}

		marker := "billing:reminded:" + bill.ID.String()
		set, err := cfg.RDB.SetNX(ctx, marker, "1", reminderMarkerTTL).Result()
		if err != nil || !set {
			continue // already reminded within the TTL window
		}

		overdueDays := int(time.Since(bill.DueAt).Hours() / 24)
		payload := EmailJobPayload{
			ToEmail: bill.Client.Email,
			Subject: "CargoHub payment reminder",
			Body: fmt.Sprintf(
				"Invoice %s for %s was due on %s (%d days ago). Please arrange payment.",
				bill.ID, bill.Amount.StringFixed(2), bill.DueAt.Format("2006-01-02"), overdueDays,
			),
		}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
			log.Warn().Err(err).Str("billing_id", bill.ID.String()).Msg("overdue_cron: failed to enqueue reminder")
			_ = cfg.RDB.Del(ctx, marker).Err()
			continue
		}
		log.Info().Str("billing_id", bill.ID.String()).Int("overdue_days", overdueDays).
			Msg("overdue_cron: reminder enqueued")
	}
}
