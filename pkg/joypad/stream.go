package joypad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// FirstFrameTimeout bounds how long Open waits for a streamed device to report
// its first state, which fixes its control counts.
const FirstFrameTimeout = 5 * time.Second

// stream feeds a Memory from a source of JSON State frames.
type stream struct {
	mem     *Memory
	logger  *slog.Logger
	first   chan struct{}
	done    chan struct{}
	err     error
	dropped int
}

// run decodes frames with next until next fails. Frames that do not decode
// are dropped. It closes s.done on return.
func (s *stream) run(next func() ([]byte, error)) {
	defer close(s.done)
	seen := false
	for {
		data, err := next()
		if err != nil {
			s.err = err
			s.mem.fail(fmt.Errorf("joypad stream: %w", err))
			return
		}
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			s.dropped++
			s.logger.Debug("dropping joypad frame", "error", err, "dropped", s.dropped)
			continue
		}
		s.mem.Update(st)
		if !seen {
			seen = true
			close(s.first)
		}
	}
}

// awaitFirst blocks until the first frame has been applied.
func (s *stream) awaitFirst(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.first:
		return nil
	case <-s.done:
		if s.err == nil {
			return errors.New("joypad stream ended before first frame")
		}
		return fmt.Errorf("joypad stream ended before first frame: %w", s.err)
	case <-timer.C:
		return errors.New("timeout waiting for first joypad frame")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newStream() *stream {
	return &stream{
		mem:    &Memory{},
		logger: slog.Default(),
		first:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}
