package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/framecontroller/pkg/config"
	"github.com/gwillem/framecontroller/pkg/joypad"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const websocketChoice = "websocket"

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Frame Controller Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		cfg = &config.Config{}
	}

	velocity := formatOptional(cfg.Velocity, "0.1")
	limit := formatOptional(cfg.Limit, "")
	invertPOV := cfg.InvertPOV != nil && *cfg.InvertPOV
	frames := []*string{
		&cfg.RootFrame,
		&cfg.LeftFrameInitial, &cfg.RightFrameInitial,
		&cfg.LeftFrame, &cfg.RightFrame,
	}
	frameTitles := []string{
		"Root frame",
		"Current left hand frame", "Current right hand frame",
		"Target frame for the left hand", "Target frame for the right hand",
	}

	fmt.Println(subHeaderStyle.Render("━━━ Joypad ━━━"))
	remote, err := chooseRemote(cfg.Remote)
	if err != nil {
		fmt.Println()
		os.Exit(1)
	}
	cfg.Remote = remote

	var frameFields []huh.Field
	for i, dst := range frames {
		frameFields = append(frameFields, huh.NewInput().
			Title(frameTitles[i]).
			Value(dst).
			Validate(required))
	}

	form := huh.NewForm(
		huh.NewGroup(frameFields...).Title("Frames"),
		huh.NewGroup(
			huh.NewInput().
				Title("Velocity (m/s)").
				Value(&velocity).
				Validate(nonNegative),
			huh.NewInput().
				Title("Limit (m)").
				Description("Maximum displacement from home on each axis. Empty for none.").
				Value(&limit).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return nonNegative(s)
				}),
			huh.NewConfirm().
				Title("Invert POV?").
				Description("Command the frames while facing the robot").
				Value(&invertPOV),
			huh.NewInput().
				Title("Transform server").
				Value(&cfg.Transforms).
				Placeholder(config.DefaultTransforms),
		).Title("Motion"),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(1)
	}

	v, _ := strconv.ParseFloat(strings.TrimSpace(velocity), 64)
	cfg.Velocity = &v
	cfg.InvertPOV = &invertPOV
	cfg.Limit = nil
	if l := strings.TrimSpace(limit); l != "" {
		lv, _ := strconv.ParseFloat(l, 64)
		cfg.Limit = &lv
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(renderSummary(cfg))
	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Start teleoperation with: " + headerStyle.Render("framecontroller run"))
	return nil
}

// chooseRemote offers the detected serial ports plus a websocket endpoint.
func chooseRemote(current string) (string, error) {
	ports, err := joypad.Ports()
	if err != nil {
		fmt.Println(dimStyle.Render(err.Error()))
	}

	var options []huh.Option[string]
	for _, p := range ports {
		options = append(options, huh.NewOption("Serial "+p, p))
	}
	options = append(options, huh.NewOption("Websocket joypad server", websocketChoice))

	choice := websocketChoice
	for _, p := range ports {
		if p == current {
			choice = p
		}
	}
	if err := huh.NewSelect[string]().
		Title("Where is the joypad?").
		Options(options...).
		Value(&choice).
		Run(); err != nil {
		return "", err
	}
	if choice != websocketChoice {
		return choice, nil
	}

	url := current
	if !strings.HasPrefix(url, "ws") {
		url = ""
	}
	err = huh.NewInput().
		Title("Joypad websocket URL").
		Placeholder("ws://localhost:7401/joypad").
		Value(&url).
		Validate(func(s string) error {
			if !strings.HasPrefix(s, "ws://") && !strings.HasPrefix(s, "wss://") {
				return errors.New("must start with ws:// or wss://")
			}
			return nil
		}).
		Run()
	return url, err
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func nonNegative(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("must be a number")
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func formatOptional(f *float64, def string) string {
	if f == nil {
		return def
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

func renderSummary(cfg *config.Config) string {
	limit := "none"
	if cfg.Limit != nil {
		limit = fmt.Sprintf("%g m", *cfg.Limit)
	}
	rows := [][]string{
		{"velocity", fmt.Sprintf("%g m/s", *cfg.Velocity)},
		{"rootFrame", cfg.RootFrame},
		{"leftFrameInitial", cfg.LeftFrameInitial},
		{"rightFrameInitial", cfg.RightFrameInitial},
		{"leftFrame", cfg.LeftFrame},
		{"rightFrame", cfg.RightFrame},
		{"remote", cfg.Remote},
		{"invertPOV", strconv.FormatBool(*cfg.InvertPOV)},
		{"limit", limit},
		{"transforms", cfg.TransformsEndpoint()},
	}
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Parameter", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return keyStyle
			}
			return cellStyle
		}).
		Render()
}
