package cmd

import "time"

// Config carries the externally supplied settings of the dispatch service.
// Durations and counts arrive from the environment; parsing happens at the
// composition boundary so everything past it works with typed values.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// OfferTimeout is how long a courier has to accept an offer before it
	// expires and the order is rebroadcast.
	OfferTimeout time.Duration

	// Cooldown is how long a courier stays out of the available pool after
	// completing a delivery.
	Cooldown time.Duration

	// MaxAttempts caps rebroadcasts per order before dispatch gives up and
	// alerts operations. Zero disables the cap.
	MaxAttempts int

	// MatchRetries bounds how many candidate couriers one matching attempt
	// may try after losing candidates to concurrent matchers.
	MatchRetries int
}
