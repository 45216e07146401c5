package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"dhl-express-manager/internal/core/cache"
	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/features/shipments/domain"

	"go.uber.org/zap"
)

const (
	shipmentKeyPrefix  = "shipment:data:"
	shipmentMetaPrefix = "shipment:meta:"
)

// RedisShipmentRepository implements ports.ShipmentRepository on the store adapter.
// The JSON blob under shipment:data:<awb> is authoritative; the hash under
// shipment:meta:<awb> carries denormalized fields for external queries and is
// never read back.
type RedisShipmentRepository struct {
	store  cache.Store
	logger *zap.Logger
}

// NewRedisShipmentRepository creates a new RedisShipmentRepository.
func NewRedisShipmentRepository(s cache.Store) *RedisShipmentRepository {
	return &RedisShipmentRepository{
		store:  s,
		logger: logger.Get(),
	}
}

// List returns every valid persisted shipment, newest first by AddedAt.
// Records that fail to decode or validate are skipped with a warning.
func (r *RedisShipmentRepository) List(ctx context.Context) ([]*domain.Shipment, error) {
	keys, err := r.store.Scan(ctx, shipmentKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	shipments := make([]*domain.Shipment, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("Failed to read persisted shipment", zap.String("key", key), zap.Error(err))
			continue
		}

		var sh domain.Shipment
		if err := json.Unmarshal(data, &sh); err != nil {
			r.logger.Warn("Skipping malformed shipment record", zap.String("key", key), zap.Error(err))
			continue
		}
		if err := sh.Validate(); err != nil {
			r.logger.Warn("Skipping invalid shipment record", zap.String("key", key), zap.Error(err))
			continue
		}
		if sh.Assignees == nil {
			sh.Assignees = []string{}
		}

		shipments = append(shipments, &sh)
	}

	sort.SliceStable(shipments, func(i, j int) bool {
		return shipments[i].AddedAt.After(shipments[j].AddedAt)
	})

	return shipments, nil
}

// Save creates or replaces the shipment record by tracking number.
func (r *RedisShipmentRepository) Save(ctx context.Context, sh *domain.Shipment) error {
	data, err := json.Marshal(sh)
	if err != nil {
		return fmt.Errorf("failed to marshal shipment %s: %w", sh.ID, err)
	}

	if err := r.store.Set(ctx, shipmentKeyPrefix+sh.ID, data); err != nil {
		return fmt.Errorf("failed to save shipment %s: %w", sh.ID, err)
	}

	meta := map[string]string{
		"status":      sh.Status.Description,
		"origin":      sh.Origin.Address.Locality,
		"destination": sh.Destination.Address.Locality,
	}
	if err := r.store.HSet(ctx, shipmentMetaPrefix+sh.ID, meta); err != nil {
		// The blob is authoritative; a failed meta write only degrades
		// external queryability.
		r.logger.Warn("Failed to write shipment meta fields",
			zap.String("tracking_number", sh.ID),
			zap.Error(err),
		)
	}

	return nil
}

// Delete removes the shipment record and its meta hash.
func (r *RedisShipmentRepository) Delete(ctx context.Context, trackingNumber string) error {
	if err := r.store.Delete(ctx, shipmentKeyPrefix+trackingNumber); err != nil {
		return fmt.Errorf("failed to delete shipment %s: %w", trackingNumber, err)
	}
	if err := r.store.Delete(ctx, shipmentMetaPrefix+trackingNumber); err != nil {
		r.logger.Warn("Failed to delete shipment meta fields",
			zap.String("tracking_number", trackingNumber),
			zap.Error(err),
		)
	}
	return nil
}
