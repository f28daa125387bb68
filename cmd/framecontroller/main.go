package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gwillem/framecontroller/pkg/config"
)

type Options struct {
	Config  string `short:"c" long:"config" description:"Configuration file (JSON or YAML)" default:"framecontroller.json"`
	Verbose bool   `short:"v" long:"verbose" description:"Log debug messages"`

	Run   RunCommand   `command:"run" description:"Drive the left and right frames from the joypad"`
	Setup SetupCommand `command:"setup" description:"Write a configuration file interactively"`
	Ports PortsCommand `command:"ports" description:"List serial ports a joypad can be attached to"`
	Serve ServeCommand `command:"serve" description:"Run a transform server"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Frame controller - jog two end-effector frames with a gamepad"

	_, err := parser.Parse()
	if err != nil {
		// Asking for help counts as a failed configuration: nothing was run.
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config. A missing default file yields
// an empty configuration; a missing explicit file is an error.
func loadConfig() (*config.Config, error) {
	if opts.Config == config.DefaultConfigFile && !config.Exists() {
		return config.Load()
	}
	return config.LoadFrom(opts.Config)
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
