package transform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Remote is a Client talking to a Server over a websocket. Requests are
// serialized; at most one is in flight. A connection that fails is dropped
// and redialed on the next request.
type Remote struct {
	url string

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

var _ Client = (*Remote)(nil)

// Dial connects to the websocket endpoint of a transform server, for example
// ws://localhost:7400/ws.
func Dial(ctx context.Context, url string) (*Remote, error) {
	r := &Remote{url: url}
	if err := r.connect(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Remote) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("dial transform server: %w", err)
	}
	r.conn = conn
	return nil
}

// drop closes a connection left in an unknown state.
func (r *Remote) drop() {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

func (r *Remote) roundTrip(ctx context.Context, req request) (response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		if err := r.connect(ctx); err != nil {
			return response{}, err
		}
	}

	r.nextID++
	req.ID = r.nextID

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	r.conn.SetWriteDeadline(deadline)
	r.conn.SetReadDeadline(deadline)

	if err := r.conn.WriteJSON(req); err != nil {
		r.drop()
		return response{}, fmt.Errorf("send %s: %w", req.Op, err)
	}
	var resp response
	if err := r.conn.ReadJSON(&resp); err != nil {
		r.drop()
		return response{}, fmt.Errorf("receive %s: %w", req.Op, err)
	}
	if resp.ID != req.ID {
		r.drop()
		return response{}, fmt.Errorf("response id %d does not match request %d", resp.ID, req.ID)
	}
	if resp.Error != "" {
		if resp.Code == codeNotFound {
			return resp, fmt.Errorf("%s in %s: %w", req.Child, req.Root, ErrNotFound)
		}
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}

// WaitForTransform implements Client.
func (r *Remote) WaitForTransform(ctx context.Context, child, root string, timeout time.Duration) error {
	return waitFor(ctx, timeout, func() error {
		_, err := r.Transform(ctx, child, root)
		return err
	})
}

// Transform implements Client.
func (r *Remote) Transform(ctx context.Context, child, root string) (Pose, error) {
	resp, err := r.roundTrip(ctx, request{Op: opGet, Child: child, Root: root})
	if err != nil {
		return Pose{}, err
	}
	if resp.Pose == nil {
		return Pose{}, fmt.Errorf("server returned no pose for %s in %s", child, root)
	}
	return *resp.Pose, nil
}

// SetTransform implements Client.
func (r *Remote) SetTransform(ctx context.Context, target, root string, pose Pose) error {
	_, err := r.roundTrip(ctx, request{Op: opSet, Child: target, Root: root, Pose: &pose})
	return err
}

// Close sends a close frame and closes the connection.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	_ = r.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := r.conn.Close()
	r.conn = nil
	return err
}
