package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"roomdesk/config"
	bookingRepo "roomdesk/database/repository/booking"
	resourceRepo "roomdesk/database/repository/resource"
	"roomdesk/models"
	"roomdesk/services/calendar"
	"roomdesk/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeSweepCompleted = "booking:sweep_completed"
	TypeReconcileSync  = "booking:reconcile_sync"

	reconcileBatchSize = 50
)

// Maintenance bundles the dependencies of the background tasks.
type Maintenance struct {
	Bookings  bookingRepo.BookingRepository
	Resources resourceRepo.ResourceRepository
	Calendar  calendar.Sync
	Location  *time.Location
}

// InitMaintenanceWorker runs the async worker and its periodic scheduler in
// the background: the completed-booking sweep and the calendar-sync
// reconciliation pass for bookings stuck in pending/failed.
func InitMaintenanceWorker(m *Maintenance) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSweepCompleted, m.handleSweepCompleted)
	mux.HandleFunc(TypeReconcileSync, m.handleReconcileSync)

	go func() {
		log.Println("[Maintenance] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Maintenance] worker failed to start: %v", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: m.Location})
	if _, err := scheduler.Register("@every 10m", asynq.NewTask(TypeSweepCompleted, nil)); err != nil {
		log.Fatalf("[Maintenance] failed to register sweep task: %v", err)
	}
	if _, err := scheduler.Register("@every 5m", asynq.NewTask(TypeReconcileSync, nil)); err != nil {
		log.Fatalf("[Maintenance] failed to register reconcile task: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Maintenance] scheduler failed to start: %v", err)
		}
	}()
}

// handleSweepCompleted flips confirmed bookings whose end time has passed to
// completed.
func (m *Maintenance) handleSweepCompleted(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()
	now := time.Now().In(m.Location)
	today := now.Format("2006-01-02")
	nowMinutes := now.Hour()*60 + now.Minute()

	updated, err := m.Bookings.SweepCompleted(today, nowMinutes)
	if err != nil {
		return fmt.Errorf("completed sweep failed: %w", err)
	}
	if updated > 0 {
		logger.Info("swept bookings to completed", zap.Int64("count", updated))
	}
	return nil
}

// handleReconcileSync retries the external mirror for bookings flagged
// pending or failed. Still best-effort: a booking that keeps failing stays
// flagged for the next pass.
func (m *Maintenance) handleReconcileSync(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	stuck, err := m.Bookings.ListBySyncStatus(
		[]string{models.SyncStatusPending, models.SyncStatusFailed}, reconcileBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list unsynced bookings: %w", err)
	}

	for _, b := range stuck {
		if b.Status != models.BookingStatusConfirmed {
			// Cancelled or completed before the mirror caught up; nothing to push.
			if err := m.Bookings.SetSyncStatus(b.ID, models.SyncStatusSynced); err != nil {
				logger.Warn("failed to clear sync flag", zap.String("bookingID", b.ID), zap.Error(err))
			}
			continue
		}

		resource, err := m.Resources.GetByID(b.ResourceID)
		if err != nil || resource == nil {
			logger.Warn("cannot reconcile booking without resource",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if resource.CalendarID == "" {
			if err := m.Bookings.SetSyncStatus(b.ID, models.SyncStatusSynced); err != nil {
				logger.Warn("failed to clear sync flag", zap.String("bookingID", b.ID), zap.Error(err))
			}
			continue
		}

		eventID, err := m.Calendar.CreateEvent(ctx, resource.CalendarID, b.Date, b.Start, b.End,
			fmt.Sprintf("%s (%s)", b.BookingNumber, b.CustomerName),
			fmt.Sprintf("Reconciled mirror for booking %s.", b.BookingNumber))
		if err != nil {
			logger.Warn("reconcile mirror attempt failed",
				zap.String("bookingID", b.ID), zap.Error(err))
			if repoErr := m.Bookings.SetSyncStatus(b.ID, models.SyncStatusFailed); repoErr != nil {
				logger.Warn("failed to record sync status", zap.String("bookingID", b.ID), zap.Error(repoErr))
			}
			continue
		}
		if err := m.Bookings.SetCalendarEvent(b.ID, eventID, models.SyncStatusSynced); err != nil {
			logger.Warn("failed to record reconciled event",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
	return nil
}
