package tasks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"werkstatt-bot/model"
)

// AbsenceExpirer is the part of the store the sweep needs.
type AbsenceExpirer interface {
	DeactivateAbsencesEndingBefore(ctx context.Context, cutoff model.Date) (int64, error)
}

// SweepExpiredAbsences deactivates every active absence whose end date lies
// before the calendar day of asOf. A record ending on asOf's day stays active
// until that day is over. Running it again for the same or a later day only
// touches records that expired in between.
func SweepExpiredAbsences(ctx context.Context, store AbsenceExpirer, asOf time.Time) (int64, error) {
	n, err := store.DeactivateAbsencesEndingBefore(ctx, model.DateOf(asOf))
	if err != nil {
		return 0, fmt.Errorf("sweep expired absences: %w", err)
	}
	return n, nil
}

// ExpiryRecorder receives the number of swept records.
type ExpiryRecorder interface {
	AbsencesExpired(n int64)
}

// RunStartupSweep runs the sweep once and logs the outcome. Errors are
// returned so the caller can skip publishing the absence panel.
func RunStartupSweep(ctx context.Context, store AbsenceExpirer, asOf time.Time, rec ExpiryRecorder, logger *zap.Logger) error {
	n, err := SweepExpiredAbsences(ctx, store, asOf)
	if err != nil {
		logger.Error("absence sweep failed", zap.Error(err))
		return err
	}
	if rec != nil {
		rec.AbsencesExpired(n)
	}
	if n > 0 {
		logger.Info("deactivated expired absences", zap.Int64("count", n), zap.String("as_of", model.DateOf(asOf).String()))
	}
	return nil
}
