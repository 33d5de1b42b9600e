// Package redisdir implements the courier directory over Redis. Courier
// apps publish presence as a JSON document per courier plus a set of
// available courier IDs; dispatch only ever reads.
//
// Keys:
//
//	courier:<id>        JSON courierRecord
//	couriers:available  set of courier IDs
package redisdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

const availableSetKey = "couriers:available"

// courierRecord is the JSON document courier apps publish.
type courierRecord struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Available bool     `json:"available"`
}

// RedisCourierDirectory implements ports.CourierDirectory over a Redis
// client.
type RedisCourierDirectory struct {
	client *redis.Client
}

// NewRedisCourierDirectory creates a directory over an existing client. The
// client is pinged to fail fast on a dead connection.
func NewRedisCourierDirectory(ctx context.Context, client *redis.Client) (*RedisCourierDirectory, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &RedisCourierDirectory{client: client}, nil
}

// Get retrieves one courier snapshot by ID.
func (d *RedisCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	data, err := d.client.Get(ctx, courierKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	if err != nil {
		return nil, err
	}

	return decodeCourier(data)
}

// GetAllAvailable retrieves every courier in the availability set. Stale
// set members whose document has expired are skipped.
func (d *RedisCourierDirectory) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	ids, err := d.client.SMembers(ctx, availableSetKey).Result()
	if err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(ids))
	for _, id := range ids {
		data, err := d.client.Get(ctx, courierKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}

		c, err := decodeCourier(data)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

func courierKey(id string) string {
	return fmt.Sprintf("courier:%s", id)
}

func decodeCourier(data []byte) (*courier.Courier, error) {
	var record courierRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	id, err := kernel.UUIDFromString(record.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromString(record.UserID)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if record.Lat != nil && record.Lon != nil {
		p, pErr := kernel.NewGeoPoint(*record.Lat, *record.Lon)
		if pErr != nil {
			return nil, pErr
		}
		location = &p
	}

	return courier.NewCourier(id, userID, location, record.Available)
}
