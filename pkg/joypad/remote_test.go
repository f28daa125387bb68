package joypad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// joypadServer streams every state sent on frames to each client.
func joypadServer(t *testing.T, frames <-chan State) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for st := range frames {
			if err := conn.WriteJSON(st); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialRemote(t *testing.T) {
	frames := make(chan State, 4)
	frames <- State{
		Buttons: make([]float64, 11),
		Axes:    []float64{0.1, 0.2},
		Sticks:  [][2]float64{{0, 0}, {0, 0}},
	}
	url := joypadServer(t, frames)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	dev, err := Open(ctx, url)
	require.NoError(t, err)
	defer dev.Close()

	assert.NoError(t, DefaultLayout().Check(dev))
	a, err := dev.Axis(1)
	require.NoError(t, err)
	assert.Equal(t, 0.2, a)

	frames <- State{
		Buttons: make([]float64, 11),
		Axes:    []float64{0.1, -0.9},
		Sticks:  [][2]float64{{0, 0}, {0, 0}},
	}
	assert.Eventually(t, func() bool {
		v, err := dev.Axis(1)
		return err == nil && v == -0.9
	}, time.Second, 5*time.Millisecond)

	close(frames)
	assert.Eventually(t, func() bool {
		_, err := dev.Axis(1)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func TestDialRemote_NoFrame(t *testing.T) {
	frames := make(chan State)
	url := joypadServer(t, frames)
	defer close(frames)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := DialRemote(ctx, url)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpen_BadEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, ep := range []string{"", "http://example.com", "serial:///dev/null?baud=fast"} {
		_, err := Open(ctx, ep)
		assert.Error(t, err, ep)
	}
}
