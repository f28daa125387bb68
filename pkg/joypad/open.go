package joypad

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Open connects to the device named by endpoint:
//
//	ws://host:port/path, wss://...     websocket joypad server
//	serial:///dev/ttyUSB0?baud=115200   serial joypad
//	/dev/ttyACM0, COM3                  serial joypad at the default baud rate
func Open(ctx context.Context, endpoint string) (Device, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("joypad endpoint is empty")
	}
	if strings.HasPrefix(endpoint, "/dev/") || strings.HasPrefix(strings.ToUpper(endpoint), "COM") {
		return device(OpenSerial(ctx, endpoint, DefaultBaudRate))
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse joypad endpoint: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		return device(DialRemote(ctx, endpoint))
	case "serial":
		port, baud, err := serialEndpoint(u)
		if err != nil {
			return nil, err
		}
		return device(OpenSerial(ctx, port, baud))
	default:
		return nil, fmt.Errorf("unsupported joypad endpoint scheme %q", u.Scheme)
	}
}

// serialEndpoint extracts the port and baud rate of a serial:// endpoint.
// Windows names land in the host (serial://COM3) or the opaque part
// (serial:COM3).
func serialEndpoint(u *url.URL) (string, int, error) {
	baud := DefaultBaudRate
	if b := u.Query().Get("baud"); b != "" {
		var err error
		baud, err = strconv.Atoi(b)
		if err != nil {
			return "", 0, fmt.Errorf("parse baud rate %q: %w", b, err)
		}
	}
	port := u.Path
	if port == "" {
		port = u.Host
	}
	if port == "" {
		port = u.Opaque
	}
	if port == "" {
		return "", 0, fmt.Errorf("serial endpoint %q names no port", u.String())
	}
	return port, baud, nil
}

// device keeps a failed open from yielding a non-nil Device holding a nil
// *Memory.
func device(m *Memory, err error) (Device, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}
