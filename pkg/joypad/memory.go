package joypad

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/geo/r2"
)

var errClosed = errors.New("joypad closed")

// State is the full set of control values of a device. It is also the JSON
// frame streamed by remote and serial devices.
type State struct {
	Buttons []float64    `json:"buttons"`
	Axes    []float64    `json:"axes"`
	Sticks  [][2]float64 `json:"sticks"`
}

// Memory is a Device holding the most recent State it was given. It is safe
// for concurrent use; readers see whole states only.
type Memory struct {
	mu      sync.RWMutex
	state   State
	err     error // set once closed or once the feeding stream fails
	onClose func() error
}

var _ Device = (*Memory)(nil)

// NewMemory creates a memory device with an initial state.
func NewMemory(initial State) *Memory {
	m := &Memory{}
	m.Update(initial)
	return m
}

// Update replaces the device state. Counts follow the new state.
func (m *Memory) Update(s State) {
	cp := State{
		Buttons: append([]float64(nil), s.Buttons...),
		Axes:    append([]float64(nil), s.Axes...),
		Sticks:  append([][2]float64(nil), s.Sticks...),
	}
	m.mu.Lock()
	m.state = cp
	m.mu.Unlock()
}

// State returns a copy of the current state.
func (m *Memory) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{
		Buttons: append([]float64(nil), m.state.Buttons...),
		Axes:    append([]float64(nil), m.state.Axes...),
		Sticks:  append([][2]float64(nil), m.state.Sticks...),
	}
}

func (m *Memory) ButtonCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.state.Buttons)
}

func (m *Memory) AxisCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.state.Axes)
}

func (m *Memory) StickCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.state.Sticks)
}

func (m *Memory) Button(i int) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return 0, m.err
	}
	if i < 0 || i >= len(m.state.Buttons) {
		return 0, fmt.Errorf("button %d out of range [0, %d)", i, len(m.state.Buttons))
	}
	return m.state.Buttons[i], nil
}

func (m *Memory) Axis(i int) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return 0, m.err
	}
	if i < 0 || i >= len(m.state.Axes) {
		return 0, fmt.Errorf("axis %d out of range [0, %d)", i, len(m.state.Axes))
	}
	return m.state.Axes[i], nil
}

func (m *Memory) Stick(i int, mode CoordinateMode) (r2.Point, error) {
	m.mu.RLock()
	if err := m.err; err != nil {
		m.mu.RUnlock()
		return r2.Point{}, err
	}
	if i < 0 || i >= len(m.state.Sticks) {
		n := len(m.state.Sticks)
		m.mu.RUnlock()
		return r2.Point{}, fmt.Errorf("stick %d out of range [0, %d)", i, n)
	}
	v := m.state.Sticks[i]
	m.mu.RUnlock()
	return toMode(r2.Point{X: v[0], Y: v[1]}, mode)
}

// fail makes every subsequent read return err.
func (m *Memory) fail(err error) {
	m.mu.Lock()
	if m.err == nil {
		m.err = err
	}
	m.mu.Unlock()
}

// Close marks the device closed and releases whatever feeds it.
func (m *Memory) Close() error {
	m.mu.Lock()
	if m.err == errClosed {
		m.mu.Unlock()
		return nil
	}
	m.err = errClosed
	onClose := m.onClose
	m.mu.Unlock()
	if onClose != nil {
		return onClose()
	}
	return nil
}
