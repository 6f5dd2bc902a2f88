package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var greetings = [...]string{
	"Everyone is an expert at something. Come find out what.",
	"The best way to learn a thing is to teach it.",
	"Somebody out there wants to learn exactly what you know.",
	"Your next mentor is one connection request away.",
	"Fifteen minutes before the hour, the door opens. Be there.",
	"Trade an hour of Go for an hour of guitar.",
	"Knowledge is the one thing that grows when you give it away.",
	"Book the session. The nerves go away by minute five.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f472b6")).
		Bold(true).
		Render("S K I L L S W A P")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"Teach what you know. Learn what you don't."`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"skillswap", "Open the dashboard (interactive TUI)"},
		{"skillswap login", "Sign in with e-mail and password"},
		{"skillswap register", "Create an account"},
		{"skillswap logout", "Forget the saved identity"},
		{"skillswap whoami", "Show who is signed in"},
		{"skillswap sessions", "List sessions with their join state"},
		{"skillswap version", "Show version"},
		{"skillswap help", "You are here"},
	}
	flags := []struct{ flag, desc string }{
		{"--api-url URL", "Backend root (SKILLSWAP_API_URL)"},
		{"--config PATH", "YAML config file (SKILLSWAP_CONFIG)"},
		{"--log-file PATH", "Write JSON logs here (SKILLSWAP_LOG_FILE)"},
		{"--log-level LEVEL", "debug, info, warn or error"},
		{"--watch", "With sessions: refresh until interrupted"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, quote)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Printf("\n  Flags:\n")
	for _, f := range flags {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", f.flag)), descStyle.Render(f.desc))
	}
	fmt.Println()
}

func printGreeting() {
	msg := greetings[rand.IntN(len(greetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f472b6")).
		Bold(true).
		Render("SKILLSWAP")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To start: skillswap login  (new here? skillswap register)")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
