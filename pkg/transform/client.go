package transform

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no chain of transforms connects two frames.
	ErrNotFound = errors.New("transform not found")
	// ErrTimeout is returned when a transform does not become available in time.
	ErrTimeout = errors.New("timeout waiting for transform")
)

// Client is the transform-distribution service as seen by a producer or
// consumer of frames. Transforms are named by the frame they place (child) and
// the frame they are expressed in (root).
type Client interface {
	// WaitForTransform blocks until child can be resolved relative to root.
	WaitForTransform(ctx context.Context, child, root string, timeout time.Duration) error
	// Transform returns the pose of child expressed in root.
	Transform(ctx context.Context, child, root string) (Pose, error)
	// SetTransform publishes the pose of target expressed in root.
	SetTransform(ctx context.Context, target, root string, pose Pose) error
	Close() error
}

const pollInterval = 50 * time.Millisecond

// waitFor polls lookup until it succeeds, the timeout elapses or ctx ends.
func waitFor(ctx context.Context, timeout time.Duration, lookup func() error) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		err := lookup()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrTimeout
		case <-ticker.C:
		}
	}
}
