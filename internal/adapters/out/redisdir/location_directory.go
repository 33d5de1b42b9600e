package redisdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

// locationRecord is the JSON document the catalog system publishes under
// location:<id>.
type locationRecord struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RedisLocationDirectory implements ports.BusinessLocationDirectory over a
// Redis client.
type RedisLocationDirectory struct {
	client *redis.Client
}

// NewRedisLocationDirectory creates a directory over an existing client.
func NewRedisLocationDirectory(client *redis.Client) (*RedisLocationDirectory, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}

	return &RedisLocationDirectory{client: client}, nil
}

// GetPoint retrieves the coordinates of a business location.
func (d *RedisLocationDirectory) GetPoint(ctx context.Context, id kernel.UUID) (kernel.GeoPoint, error) {
	if err := id.Validate(); err != nil {
		return kernel.GeoPoint{}, err
	}

	data, err := d.client.Get(ctx, locationKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("business location", id.String())
	}
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	var record locationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(record.Lat, record.Lon)
}

func locationKey(id string) string {
	return fmt.Sprintf("location:%s", id)
}
