package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	detailStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
