package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/amqp"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/storage"
)

// SyncWorker handles synchronization of activities from SQLite to Google Sheets
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  ledger.ActivityExporter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, exporter ledger.ActivityExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single activity sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ActivitySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	activity, err := w.storage.GetActivity(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get activity from storage: %w", err)
	}

	if err := w.exportActivity(ctx, msg.ID, activity); err != nil {
		return fmt.Errorf("export activity: %w", err)
	}

	return nil
}

// ProcessPendingActivities processes any activities that haven't been exported yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingActivities(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncActivities(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending activities: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending activities", "count", len(pending))

	for _, p := range pending {
		activity, err := w.storage.GetActivity(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get activity", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportActivity(ctx, p.ID, activity); err != nil {
			slog.ErrorContext(ctx, "Failed to export activity", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck verifies and exports any pending activities at worker startup.
// This is useful to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for startup check
	pending, err := w.storage.GetPendingSyncActivities(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending activities for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending activities found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending activities on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		activity, err := w.storage.GetActivity(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get activity for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportActivity(ctx, p.ID, activity); err != nil {
			slog.ErrorContext(ctx, "Failed to export activity during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportActivity(ctx context.Context, id int64, activity core.Activity) error {
	ref, err := w.exporter.Export(ctx, activity)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// The export itself worked, so don't surface this
	}

	slog.InfoContext(ctx, "Successfully exported activity",
		"id", id,
		"sheets_ref", ref,
		"category", activity.Category,
		"emission_grams", activity.Emission.Grams)

	return nil
}
