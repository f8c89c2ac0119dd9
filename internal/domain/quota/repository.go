package quota

import "context"

type Repository interface {
	Get(ctx context.Context, day string) (Usage, error)
	// Increment adds n to the day's counter and returns the new total.
	Increment(ctx context.Context, day string, n int) (int, error)
}
