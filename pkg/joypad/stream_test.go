package joypad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFrame = `{"buttons":[0,0,0,0,0,0,0,1,0,0,0],"axes":[0.5,0],"sticks":[[0,0],[0,0]]}`

// feed returns a frame source yielding lines, then blocking until the test
// ends so the stream stays open.
func feed(t *testing.T, lines ...string) func() ([]byte, error) {
	t.Helper()
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })
	i := 0
	return func() ([]byte, error) {
		if i < len(lines) {
			i++
			return []byte(lines[i-1]), nil
		}
		<-hold
		return nil, errors.New("source closed")
	}
}

func TestStream_DropsUndecodableFrames(t *testing.T) {
	s := newStream()
	go s.run(feed(t, `0.0],[0,0]]}`, "", validFrame))

	require.NoError(t, s.awaitFirst(context.Background(), time.Second))
	assert.Equal(t, 11, s.mem.ButtonCount())
	v, err := s.mem.Axis(0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestStream_TransportErrorFailsDevice(t *testing.T) {
	s := newStream()
	sent := false
	go s.run(func() ([]byte, error) {
		if !sent {
			sent = true
			return []byte(validFrame), nil
		}
		return nil, errors.New("unplugged")
	})

	<-s.done
	_, err := s.mem.Axis(0)
	assert.ErrorContains(t, err, "unplugged")
}

func TestStream_TimeoutWithoutValidFrame(t *testing.T) {
	s := newStream()
	go s.run(feed(t, "garbage", `{"buttons":`))

	err := s.awaitFirst(context.Background(), 50*time.Millisecond)
	assert.ErrorContains(t, err, "timeout")
}
