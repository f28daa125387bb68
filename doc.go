// Package framecontroller jogs two end-effector frames with a gamepad.
//
// An operator drives a "left" and a "right" frame, expressed in a shared root
// frame, with the analog axes and sticks of a joypad. Every 10 ms the
// controller integrates the stick input into each frame's translation, keeps
// it within a configurable band around the frame's home pose and publishes
// both frames to a transform server. One button snaps both frames home.
//
// # Installation
//
//	go install github.com/gwillem/framecontroller/cmd/framecontroller@latest
//
// # Usage
//
// Start a transform server, or point the controller at an existing one:
//
//	framecontroller serve
//
// Write a configuration file:
//
//	framecontroller setup
//
// Then start teleoperation:
//
//	framecontroller run
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/framecontroller: CLI with run, setup, ports and serve commands
//   - pkg/teleop: per-tick input to pose pipeline and control loop
//   - pkg/joypad: input devices (websocket, serial, in-memory)
//   - pkg/transform: poses, transform tree, server and client
//   - pkg/config: configuration file and environment handling
package framecontroller
