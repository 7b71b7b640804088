package usecase

import (
	"context"
	"time"

	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/repository"

	"github.com/sirupsen/logrus"
)

// Reconciler periodically surfaces purchases stuck in PENDING past the age
// threshold: debits committed whose provider outcome never resolved (crash
// between debit and refund, or a "processing" answer that never settled).
// It only reports; reversing without a provider requery could pay out twice.
type Reconciler struct {
	repo      repository.WalletRepository
	logger    *logrus.Logger
	interval  time.Duration
	threshold time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewReconciler(repo repository.WalletRepository, logger *logrus.Logger, interval, threshold time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if threshold <= 0 {
		threshold = 15 * time.Minute
	}
	return &Reconciler{
		repo:      repo,
		logger:    logger,
		interval:  interval,
		threshold: threshold,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (r *Reconciler) Start() {
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.WithFields(logrus.Fields{
			"interval":  r.interval.String(),
			"threshold": r.threshold.String(),
		}).Info("Reconciliation sweep started")

		for {
			select {
			case <-ticker.C:
				r.Sweep(context.Background())
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *Reconciler) Stop() {
	close(r.stop)
	<-r.done
	r.logger.Info("Reconciliation sweep stopped")
}

func (r *Reconciler) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.threshold)

	stale, err := r.repo.ListStalePendingTransactions(ctx, entity.TransactionTypePurchase, cutoff, 100)
	if err != nil {
		r.logger.WithError(err).Error("Reconciliation sweep failed to list stale transactions")
		return
	}

	for _, t := range stale {
		r.logger.WithFields(logrus.Fields{
			"transaction_id": t.ID,
			"wallet_id":      t.WalletID,
			"reference":      t.Reference,
			"amount":         t.Amount.String(),
			"age":            time.Since(t.CreatedAt).String(),
		}).Warn("Purchase pending past threshold, needs manual reconciliation")
	}

	if len(stale) > 0 {
		r.logger.WithField("count", len(stale)).Warn("Stale pending purchases found")
	}
}
