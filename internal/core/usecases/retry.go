package usecases

import "context"

// RetryPolicy re-runs a failing operation up to MaxAttempts times in total,
// with no backoff. It exists so the bound and the wrapped operation stay
// independently testable.
type RetryPolicy struct {
	MaxAttempts int
}

// Do runs op until it succeeds or the attempts are exhausted, returning the
// last error. A cancelled context stops further attempts.
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = op(ctx); err == nil {
			return nil
		}
	}
	return err
}
