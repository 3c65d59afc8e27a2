package broker

import (
	"context"
	"errors"
	"fmt"
)

// FanOut publishes every message to each publisher in order.
// The first failure stops delivery to the remaining publishers.
type FanOut []Publisher

// Publish implements Publisher.
func (f FanOut) Publish(ctx context.Context, msg Message) error {
	for i, p := range f {
		if err := p.Publish(ctx, msg); err != nil {
			return fmt.Errorf("fan-out target %d: %w", i, err)
		}
	}
	return nil
}

// Close closes every publisher and joins their errors.
func (f FanOut) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
