package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/framecontroller/pkg/joypad"
)

type PortsCommand struct{}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := joypad.Ports()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		fmt.Println("A websocket joypad can still be used with --remote ws://...")
		return nil
	}

	rows := make([][]string, 0, len(ports))
	for i, p := range ports {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), p})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "Port").
		Rows(rows...)
	fmt.Println(t.Render())
	fmt.Println("Pass a port to --remote as is, or as serial://<port>?baud=<rate>.")
	return nil
}
