package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type styleSet struct {
	heading lipgloss.Style
	label   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
	tag     lipgloss.Style
	box     lipgloss.Style
}

// useColor is true only when stdout is a terminal and color was not disabled.
func useColor(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("no-color")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("no-color")
	}
	if flag != nil && flag.Value.String() == "true" {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func styles(cmd *cobra.Command) styleSet {
	if !useColor(cmd) {
		return styleSet{}
	}
	return styleSet{
		heading: lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "7"}),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "10", Dark: "10"}),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "11", Dark: "11"}),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "7"}),
		tag:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			Padding(0, 1),
	}
}

func errorStyle(cmd *cobra.Command) lipgloss.Style {
	if !useColor(cmd) {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
}
