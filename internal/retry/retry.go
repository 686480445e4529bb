// Package retry повторяет операцию фиксированное число раз с фиксированной паузой.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy описывает повтор: всего MaxAttempts попыток с паузой Delay между ними.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration

	// OnRetry вызывается после каждой неудачной попытки, кроме последней.
	OnRetry func(attempt int, err error)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent помечает ошибку как не подлежащую повтору.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do выполняет fn до первого успеха. Возвращает результат успешной попытки
// или ошибку последней.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, errors.Join(lastErr, ctx.Err())
			case <-timer.C:
			}
		}

		res, err := fn(ctx, attempt)
		if err == nil {
			return res, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		lastErr = err
		if attempt < attempts && p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
	}

	return zero, lastErr
}
