package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/amqp"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/storage"
)

// ActivityService orchestrates record creation across the calculator,
// SQLite and the AMQP sync queue.
type ActivityService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewActivityService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ActivityService {
	return &ActivityService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateActivity validates the input, derives the emission, persists the
// record and publishes a sync message. Validation failures return before
// anything is written; a failed insert leaves no row. The sync publish is
// best-effort and never fails the request once the record is durable.
func (s *ActivityService) CreateActivity(ctx context.Context, date core.Date, category core.Category, mode string, quantity core.Quantity) (core.Activity, error) {
	if err := date.Validate(); err != nil {
		return core.Activity{}, err
	}
	emission, err := core.Compute(category, mode, quantity)
	if err != nil {
		return core.Activity{}, err
	}

	a := core.Activity{
		Date:     date,
		Category: category,
		Mode:     mode,
		Quantity: quantity,
		Emission: emission,
	}

	id, err := s.storage.Append(ctx, a)
	if err != nil {
		return core.Activity{}, fmt.Errorf("save activity: %w", err)
	}
	a.ID = id

	if err := s.publishSyncMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// Don't fail the request - the record is saved locally
	}

	return a, nil
}

func (s *ActivityService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishActivitySync(ctx, id, 1)
}

// Close closes both storage and AMQP connections.
func (s *ActivityService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close activity service: %v", errs)
	}

	return nil
}
