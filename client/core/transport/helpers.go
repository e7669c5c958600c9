package transport

import (
	"context"
	"time"
)

// waitBackoff 线性退避：第 attempt 次重试前等待 base*(attempt+1)
func waitBackoff(ctx context.Context, base time.Duration, attempt int) error {
	if base <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(base * time.Duration(attempt+1))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
