package cmd

import "time"

// Config carries all process configuration, loaded from the environment at
// startup.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MaxRetries           int
	MaxCourierDistanceKm float64
	OfferExpiry          time.Duration
	CheckInterval        time.Duration
	RetryDelay           time.Duration
	PricePerKm           float64
	EnableReassignment   bool
}
