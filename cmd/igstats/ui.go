package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printError(msg string, detail string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+msg)
	if detail != "" {
		fmt.Fprintln(os.Stderr, hintStyle.Render("  "+detail))
	}
}

func printSuccess(msg string) {
	fmt.Println(successStyle.Render("✓ ") + msg)
}

func printInfo(label, value string) {
	fmt.Println(infoStyle.Render(label+": ") + value)
}

func printHint(msg string) {
	fmt.Println(hintStyle.Render(msg))
}
