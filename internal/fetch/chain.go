package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/create-app/internal/model"
)

// Result is a successful fetch.
type Result struct {
	// Path is the local copy of the template.
	Path string

	// Mechanism is the strategy that produced Path.
	Mechanism string

	// Attempts lists every attempt in order, ending with the success.
	Attempts []model.FetchAttempt
}

// ExhaustedError is returned when no mechanism produced the template.
type ExhaustedError struct {
	Attempts []model.FetchAttempt
}

// Error satisfies the error interface.
func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s %s", a.Mechanism, a.Outcome))
	}
	return fmt.Sprintf("all fetch mechanisms failed (%s)", strings.Join(parts, ", "))
}

// Chain tries strategies in order.
type Chain struct {
	strategies []Strategy
	log        logrus.FieldLogger
}

// NewChain creates a chain over strategies, tried in the given order.
func NewChain(log logrus.FieldLogger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, log: log}
}

// Fetch materializes the template at target using the first strategy that
// succeeds.
//
// target must not exist when Fetch is called. Anything a failed attempt
// leaves at target is removed before the next attempt runs so each
// mechanism starts from a clean slate.
func (c *Chain) Fetch(ctx context.Context, target string) (*Result, error) {
	attempts := make([]model.FetchAttempt, 0, len(c.strategies))

	for _, s := range c.strategies {
		attempt := model.FetchAttempt{Mechanism: s.Name(), Source: s.Source()}
		logger := c.log.WithFields(logrus.Fields{"mechanism": s.Name(), "source": s.Source()})

		if a, ok := s.(Availability); ok && !a.Available() {
			attempt.Outcome = model.FetchSkipped
			attempt.Err = ErrUnavailable
			attempts = append(attempts, attempt)
			logger.Debug("fetch mechanism unavailable, skipping")
			continue
		}

		// Cancellation is not a mechanism failure; stop instead of falling
		// through to the next mechanism.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug("attempting fetch")
		err := s.Attempt(ctx, target)
		if err == nil {
			attempt.Outcome = model.FetchSucceeded
			attempts = append(attempts, attempt)
			return &Result{Path: target, Mechanism: s.Name(), Attempts: attempts}, nil
		}

		// An attempt aborted by cancellation says nothing about the
		// mechanism, so it is neither recorded nor followed by another.
		if ctxErr := ctx.Err(); ctxErr != nil {
			if rmErr := os.RemoveAll(target); rmErr != nil {
				logger.WithError(rmErr).Warn("failed to clean up after cancelled fetch")
			}
			return nil, ctxErr
		}

		attempt.Outcome = model.FetchFailed
		attempt.Err = err
		attempts = append(attempts, attempt)
		logger.WithError(err).Warn("fetch mechanism failed, trying next")

		if rmErr := os.RemoveAll(target); rmErr != nil {
			logger.WithError(rmErr).Warn("failed to clean up after failed fetch")
		}
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

// IsExhausted reports whether err is (or wraps) an *ExhaustedError.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
