package joypad

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		port     string
		baud     int
	}{
		{"serial:///dev/ttyUSB0", "/dev/ttyUSB0", DefaultBaudRate},
		{"serial:///dev/ttyACM1?baud=57600", "/dev/ttyACM1", 57600},
		{"serial://COM3", "COM3", DefaultBaudRate},
		{"serial://COM12?baud=9600", "COM12", 9600},
		{"serial:COM4", "COM4", DefaultBaudRate},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			u, err := url.Parse(tt.endpoint)
			require.NoError(t, err)
			port, baud, err := serialEndpoint(u)
			require.NoError(t, err)
			assert.Equal(t, tt.port, port)
			assert.Equal(t, tt.baud, baud)
		})
	}
}

func TestSerialEndpoint_Errors(t *testing.T) {
	for _, endpoint := range []string{"serial://", "serial:///dev/ttyUSB0?baud=fast"} {
		u, err := url.Parse(endpoint)
		require.NoError(t, err)
		_, _, err = serialEndpoint(u)
		assert.Error(t, err, endpoint)
	}
}

func TestOpen_UnsupportedEndpoint(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)

	dev, err := Open(context.Background(), "http://localhost/joypad")
	assert.ErrorContains(t, err, "unsupported")
	assert.Nil(t, dev)
}
