package joypad

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate is used for serial joypads when the endpoint sets none.
const DefaultBaudRate = 115200

// OpenSerial opens a joypad attached to a serial port that writes one JSON
// State frame per line.
func OpenSerial(ctx context.Context, port string, baud int) (*Memory, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial joypad %s: %w", port, err)
	}

	scanner := bufio.NewScanner(p)
	s := newStream()
	s.mem.onClose = func() error {
		err := p.Close()
		<-s.done
		return err
	}
	go s.run(func() ([]byte, error) {
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return []byte(line), nil
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("serial port %s closed", port)
	})

	if err := s.awaitFirst(ctx, FirstFrameTimeout); err != nil {
		s.mem.Close()
		return nil, err
	}
	return s.mem, nil
}

// Ports lists the serial ports a joypad could be attached to. Bluetooth
// ports are skipped.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	out := ports[:0]
	for _, p := range ports {
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
