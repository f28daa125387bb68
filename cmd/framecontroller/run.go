package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/framecontroller/pkg/config"
	"github.com/gwillem/framecontroller/pkg/joypad"
	"github.com/gwillem/framecontroller/pkg/teleop"
	"github.com/gwillem/framecontroller/pkg/transform"
)

type RunCommand struct {
	Velocity          *float64 `long:"velocity" description:"Maximum linear velocity in m/s"`
	RootFrame         string   `long:"rootFrame" description:"Source frame id for the left and right frames"`
	LeftFrameInitial  string   `long:"leftFrameInitial" description:"Frame id of the actual left hand frame"`
	RightFrameInitial string   `long:"rightFrameInitial" description:"Frame id of the actual right hand frame"`
	LeftFrame         string   `long:"leftFrame" description:"Target frame id for the left hand"`
	RightFrame        string   `long:"rightFrame" description:"Target frame id for the right hand"`
	Remote            string   `long:"remote" description:"Joypad endpoint (ws://..., serial:///dev/..., /dev/...)"`
	InvertPOV         *bool    `long:"invertPOV" description:"Command from a frontal point of view"`
	Limit             *float64 `long:"limit" description:"Maximum displacement from home on each axis, meters"`
	Transforms        string   `long:"transforms" description:"Transform server websocket endpoint"`
	Headless          bool     `long:"headless" description:"Log to stderr instead of showing the dashboard"`
	LogFile           string   `long:"log-file" description:"Write logs here while the dashboard is shown"`
}

const bringUpTimeout = 10 * time.Second

// apply overrides cfg with every flag that was given.
func (c *RunCommand) apply(cfg *config.Config) {
	if c.Velocity != nil {
		cfg.Velocity = c.Velocity
	}
	if c.InvertPOV != nil {
		cfg.InvertPOV = c.InvertPOV
	}
	if c.Limit != nil {
		cfg.Limit = c.Limit
	}
	for _, s := range []struct {
		flag string
		dst  *string
	}{
		{c.RootFrame, &cfg.RootFrame},
		{c.LeftFrameInitial, &cfg.LeftFrameInitial},
		{c.RightFrameInitial, &cfg.RightFrameInitial},
		{c.LeftFrame, &cfg.LeftFrame},
		{c.RightFrame, &cfg.RightFrame},
		{c.Remote, &cfg.Remote},
		{c.Transforms, &cfg.Transforms},
	} {
		if s.flag != "" {
			*s.dst = s.flag
		}
	}
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load %s: %v\n", opts.Config, err)
		os.Exit(1)
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Run 'framecontroller run --help' for the parameter list, or 'framecontroller setup'.")
		os.Exit(1)
	}

	logOut := io.Writer(os.Stderr)
	if !c.Headless {
		logOut = io.Discard
		if c.LogFile != "" {
			f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			logOut = f
		}
	}
	logger := newLogger(logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connecting to %s and %s\n", cfg.Remote, cfg.TransformsEndpoint())
	ctrl, err := bringUp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bring-up failed: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	if c.Headless {
		logger.Info("running headless", "remote", cfg.Remote, "transforms", cfg.TransformsEndpoint())
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("controller stopped", "error", err)
		}
	}()

	p := tea.NewProgram(initialRunModel(ctrl, cfg.Control().Limit.X), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// bringUp connects the joypad and transform server and builds the controller.
func bringUp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*teleop.Controller, error) {
	dialCtx, cancel := context.WithTimeout(ctx, bringUpTimeout)
	defer cancel()

	logger.Info("opening joypad", "remote", cfg.Remote)
	dev, err := joypad.Open(dialCtx, cfg.Remote)
	if err != nil {
		return nil, err
	}

	logger.Info("connecting to transform server", "url", cfg.TransformsEndpoint())
	tf, err := transform.Dial(dialCtx, cfg.TransformsEndpoint())
	if err != nil {
		dev.Close()
		return nil, err
	}

	ctrl, err := teleop.NewController(ctx, cfg.Control(), dev, tf, teleop.WithLogger(logger))
	if err != nil {
		dev.Close()
		tf.Close()
		return nil, err
	}
	return ctrl, nil
}

const (
	headerHeight = 4 // title, positions, blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border

	defaultRangeMM = 250.0
)

type series struct {
	name  string
	hand  teleop.Hand
	axis  int
	color string
}

var allSeries = []series{
	{"left.x", teleop.Left, 0, "196"},   // red
	{"left.y", teleop.Left, 1, "208"},   // orange
	{"left.z", teleop.Left, 2, "226"},   // yellow
	{"right.x", teleop.Right, 0, "46"},  // green
	{"right.y", teleop.Right, 1, "51"},  // cyan
	{"right.z", teleop.Right, 2, "201"}, // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	homeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
)

type runModel struct {
	ctrl     *teleop.Controller
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	quitting bool
	last     *teleop.State
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// hasMovement reports whether any displacement changed since the last state.
func (m *runModel) hasMovement(s teleop.State) bool {
	if m.last == nil {
		return true
	}
	return s.Displacements != m.last.Displacements
}

// Messages from the controller
type stateMsg teleop.State
type logMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

// initialRunModel plots displacement from home in millimeters. The y range
// follows the clamp radius when one is configured.
func initialRunModel(ctrl *teleop.Controller, limit float64) runModel {
	rangeMM := defaultRangeMM
	if limit < teleop.Unbounded {
		rangeMM = limit * 1000
	}
	if rangeMM <= 0 {
		rangeMM = 1
	}
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-rangeMM, rangeMM),
	)
	for _, s := range allSeries {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color))
		chart.SetDataSetStyles(s.name, runes.ThinLineStyle, style)
	}
	return runModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		state := teleop.State(msg)
		if m.hasMovement(state) {
			for _, s := range allSeries {
				d := state.Displacements[s.hand]
				v := [3]float64{d.X, d.Y, d.Z}[s.axis]
				m.chart.PushDataSet(s.name, v*1000)
			}
			m.chart.DrawAll()
		}
		m.last = &state
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return "Teleoperation stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Frame Controller"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	if m.last != nil && m.last.Home {
		sb.WriteString("  " + homeStyle.Render(" HOME "))
	}
	sb.WriteString("\n")
	sb.WriteString(renderPositions(m.last))
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderPositions(s *teleop.State) string {
	if s == nil {
		return statusStyle.Render("waiting for first tick...")
	}
	var parts []string
	for _, h := range teleop.AllHands() {
		t := s.Translations[h]
		parts = append(parts, fmt.Sprintf("%-5s x=%+.3f y=%+.3f z=%+.3f m", h, t.X, t.Y, t.Z))
	}
	return statusStyle.Render(strings.Join(parts, "   "))
}

func renderLegend() string {
	var items []string
	for _, s := range allSeries {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color)).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+s.name)
	}
	return strings.Join(items, "  ")
}
