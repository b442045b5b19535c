package sweeper

import (
	"context"
	"fmt"
	"time"

	"carpark/internal/bookings/repository"
	"carpark/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically compacts the booking ledger by dropping expired
// entries. Availability never depends on the sweep; it only keeps the
// stored history from growing without bound.
type Sweeper struct {
	ledger   repository.BookingLedger
	interval time.Duration
	log      *logger.Logger
	cron     *cron.Cron
}

func New(ledger repository.BookingLedger, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		interval: interval,
		log:      log,
		cron:     cron.New(),
	}
}

// Start schedules the sweep and returns. Call Stop to drain.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("Booking sweeper started", "interval", s.interval)
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Booking sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dropped, err := s.ledger.PruneExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("Booking sweep failed", "error", err)
		return
	}
	if dropped > 0 {
		s.log.Info("Pruned expired bookings", "dropped", dropped)
	}
}
