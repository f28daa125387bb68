package joypad

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// DialRemote connects to a joypad server streaming JSON State frames over a
// websocket and returns a device reflecting the latest frame.
func DialRemote(ctx context.Context, url string) (*Memory, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial joypad %s: %w", url, err)
	}

	s := newStream()
	s.mem.onClose = func() error {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err := conn.Close()
		<-s.done
		return err
	}
	go s.run(func() ([]byte, error) {
		_, data, err := conn.ReadMessage()
		return data, err
	})

	if err := s.awaitFirst(ctx, FirstFrameTimeout); err != nil {
		s.mem.Close()
		return nil, err
	}
	return s.mem, nil
}
