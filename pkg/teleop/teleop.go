// Package teleop drives two end-effector frames from a gamepad.
//
// Every tick the controller reads a snapshot of the device, conditions it,
// integrates each hand's translation, clamps it to a band around the hand's
// home pose and publishes both frames. Holding the home button snaps both
// hands back to their home poses instead.
package teleop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang/geo/r3"

	"github.com/gwillem/framecontroller/pkg/joypad"
	"github.com/gwillem/framecontroller/pkg/transform"
)

// State represents the outcome of one tick.
type State struct {
	Translations  [2]r3.Vector // indexed by Hand, in the root frame
	Displacements [2]r3.Vector // indexed by Hand, relative to home
	Home          bool         // home button held this tick
	Timestamp     time.Time
	Error         error // read or publish failure, nil on success
}

// Controller manages the teleoperation control loop.
type Controller struct {
	device     joypad.Device
	transforms transform.Client
	cfg        Config
	assignment HandAssignment
	step       float64
	logger     *slog.Logger

	hands    [2]HandPose
	homeHeld bool

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController checks the device against the configured layout, waits for
// both hands' initial frames and records them as home. The controller takes
// ownership of device and transforms.
func NewController(ctx context.Context, cfg Config, device joypad.Device, transforms transform.Client, opts ...Option) (*Controller, error) {
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Layout.Check(device); err != nil {
		return nil, err
	}

	c := &Controller{
		device:     device,
		transforms: transforms,
		cfg:        cfg,
		assignment: NewHandAssignment(cfg.InvertPOV),
		step:       cfg.Step(),
		logger:     slog.Default(),
		stateCh:    make(chan State, 1),
		logCh:      make(chan string, 10),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, h := range AllHands() {
		initial := cfg.InitialFrames[h]
		c.logger.Info("waiting for transform", "hand", h, "frame", initial, "root", cfg.RootFrame)
		if err := transforms.WaitForTransform(ctx, initial, cfg.RootFrame, InitialTransformTimeout); err != nil {
			return nil, fmt.Errorf("wait for %s transform %s: %w", h, initial, err)
		}
		home, err := transforms.Transform(ctx, initial, cfg.RootFrame)
		if err != nil {
			return nil, fmt.Errorf("get %s transform %s: %w", h, initial, err)
		}
		c.logger.Info("transform retrieved", "hand", h, "frame", initial, "translation", home.Translation)
		c.hands[h] = HandPose{
			Current: home,
			Home:    home,
			Source:  cfg.RootFrame,
			Target:  cfg.TargetFrames[h],
		}
	}
	return c, nil
}

// Close closes the device and the transform client.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	var errs []error
	if err := c.device.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close joypad: %w", err))
	}
	if err := c.transforms.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close transforms: %w", err))
	}
	return errors.Join(errs...)
}

// States returns a channel that receives the latest tick state.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives human-readable log lines.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return int(time.Second / c.cfg.Period)
}

// Hand returns the tracked pose of h.
func (c *Controller) Hand(h Hand) HandPose {
	return c.hands[h]
}

// Assignment returns the hand assignment fixed for this session.
func (c *Controller) Assignment() HandAssignment {
	return c.assignment
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the control loop until ctx is cancelled. Ticks never overlap.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.logger.Info("teleoperation started", "hz", c.Hz(), "step", c.step, "invert_pov", c.cfg.InvertPOV)
	c.log("Teleoperation started at %d Hz", c.Hz())

	ticker := time.NewTicker(c.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.sendState(c.Tick(ctx))
		}
	}
}

// Tick runs one full read, condition, integrate, clamp and publish cycle.
func (c *Controller) Tick(ctx context.Context) State {
	snap, err := joypad.Read(c.device, c.cfg.Layout)
	if err != nil {
		c.logger.Warn("joypad read failed", "error", err)
		c.log("Read error: %v", err)
		// Hold both poses; the frames are still published.
		c.homeHeld = false
		if perr := c.publish(ctx); perr != nil {
			c.logger.Warn("publish failed", "error", perr)
			err = errors.Join(err, perr)
		}
		return c.state(false, err)
	}

	in := Condition(snap)
	if in.Home {
		if !c.homeHeld {
			c.logger.Info("home button pressed")
			c.log("Home button pressed")
		}
		for h := range c.hands {
			c.hands[h].Reset()
		}
	} else {
		for _, h := range AllHands() {
			c.advance(h, in)
		}
	}
	c.homeHeld = in.Home

	err = c.publish(ctx)
	if err != nil {
		c.logger.Warn("publish failed", "error", err)
		c.log("Publish error: %v", err)
	}
	return c.state(in.Home, err)
}

// advance integrates and clamps one hand.
func (c *Controller) advance(h Hand, in Conditioned) {
	hp := &c.hands[h]
	next := Integrate(hp.Current.Translation,
		in.Axes[c.assignment.Axis[h]],
		in.Sticks[c.assignment.Stick[h]],
		c.assignment.POVSign, c.step)
	next = Clamp(next, hp.Home.Translation, c.cfg.Limit)
	hp.Current = hp.Current.WithTranslation(next)
}

// publish sends both hands. A failure for one hand does not skip the other.
func (c *Controller) publish(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	var errs []error
	for _, h := range AllHands() {
		hp := c.hands[h]
		if err := c.transforms.SetTransform(ctx, hp.Target, hp.Source, hp.Current); err != nil {
			errs = append(errs, fmt.Errorf("publish %s frame %s: %w", h, hp.Target, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) state(home bool, err error) State {
	s := State{Home: home, Timestamp: time.Now(), Error: err}
	for _, h := range AllHands() {
		s.Translations[h] = c.hands[h].Current.Translation
		s.Displacements[h] = c.hands[h].Displacement()
	}
	return s
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	c.logger.Info("teleoperation stopped")
	c.log("Teleoperation stopped")
}
