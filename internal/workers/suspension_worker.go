package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
)

// Reactivator снимает истёкшие приостановки.
type Reactivator interface {
	ReactivateExpired(ctx context.Context) ([]models.User, error)
}

// SweepObserver получает итог каждого прогона.
type SweepObserver interface {
	ObserveSweep(reactivated int, err error)
}

// SuspensionWorker периодически возвращает в active пользователей с истёкшей приостановкой.
type SuspensionWorker struct {
	reactivator Reactivator
	observer    SweepObserver
	interval    time.Duration
}

func NewSuspensionWorker(reactivator Reactivator, observer SweepObserver, interval time.Duration) *SuspensionWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SuspensionWorker{reactivator: reactivator, observer: observer, interval: interval}
}

// Run выполняет прогон сразу и затем по таймеру, пока не отменён ctx.
func (w *SuspensionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Log.WithFields(logrus.Fields{"interval": w.interval.String()}).Info("suspension sweep started")

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("suspension sweep stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SuspensionWorker) sweep(ctx context.Context) {
	users, err := w.reactivator.ReactivateExpired(ctx)
	if w.observer != nil {
		w.observer.ObserveSweep(len(users), err)
	}
	if err != nil {
		if ctx.Err() == nil {
			logger.WithError(err, logrus.Fields{"job": "suspension_sweep"}).Error("suspension sweep failed")
		}
		return
	}
	if len(users) > 0 {
		logger.Log.WithFields(logrus.Fields{"reactivated": len(users)}).Info("expired suspensions lifted")
	}
}
