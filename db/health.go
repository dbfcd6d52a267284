package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultPingTimeout = 10 * time.Second

// Ping checks that the connected store answers within timeout. A zero
// timeout falls back to ten seconds.
func Ping(ctx context.Context, timeout time.Duration) error {
	if DB == nil {
		return errors.New("database is not connected")
	}

	if timeout == 0 {
		timeout = defaultPingTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := DB.DB()

	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	// Test the connection with a ping
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
