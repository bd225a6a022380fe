package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
	"github.com/tandemfin/couple_finance_app/internal/platform/config"
)

// Runner drives the periodic background batches: the gift auto-reveal sweep
// and the premium tier refresh. Each job skips a tick if the previous run is
// still in flight.
type Runner struct {
	giftService    portssvc.GiftSvcFacade
	premiumService portssvc.PremiumSvcFacade

	sweepInterval   time.Duration
	refreshInterval time.Duration

	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a job runner over the service container.
func NewRunner(cfg *config.Config, services *portssvc.ServiceContainer, logger *slog.Logger) *Runner {
	return &Runner{
		giftService:     services.Gift,
		premiumService:  services.Premium,
		sweepInterval:   cfg.GiftSweepInterval,
		refreshInterval: cfg.PremiumRefreshInterval,
		logger:          logger,
	}
}

// Start launches both job loops. They stop when ctx is cancelled; Wait blocks
// until they have drained.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(2)
	go r.loop(ctx, "gift-sweep", r.sweepInterval, r.runGiftSweep)
	go r.loop(ctx, "premium-refresh", r.refreshInterval, r.runPremiumRefresh)
}

// Wait blocks until all job loops have exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, name string, interval time.Duration, run func(context.Context)) {
	defer r.wg.Done()

	logger := r.logger.With(slog.String("job", name))
	ctx = middleware.ContextWithLogger(ctx, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Background job started", slog.Duration("interval", interval))

	// Runs execute inline on the loop goroutine; the ticker drops ticks that
	// fire while a run is still in progress.
	for {
		select {
		case <-ctx.Done():
			logger.Info("Background job stopping")
			return
		case <-ticker.C:
			run(ctx)
		}
	}
}

func (r *Runner) runGiftSweep(ctx context.Context) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary, err := r.giftService.SweepGiftReveals(ctx)
	if err != nil {
		logger.Error("Gift sweep failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Gift sweep finished",
		slog.Int("processed", summary.Processed),
		slog.Int("errored", summary.Errored),
	)
}

func (r *Runner) runPremiumRefresh(ctx context.Context) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary, err := r.premiumService.RefreshAllPremiumTiers(ctx)
	if err != nil {
		logger.Error("Premium refresh failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Premium refresh finished",
		slog.Int("processed", summary.Processed),
		slog.Int("errored", summary.Errored),
	)
}
