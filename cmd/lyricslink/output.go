package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
)

// printResolution writes the link, or an empty line, to out and a styled
// status line to status.
func printResolution(out, status io.Writer, r domain.Resolution) {
	fmt.Fprintln(out, r.URL)

	track := fmt.Sprintf("%s - %s", strings.Join(r.Artists, ", "), r.Title)
	if !r.Resolved {
		fmt.Fprintln(status, errorStyle.Render("Cannot find link!")+" "+dimStyle.Render(track))
		return
	}
	line := successStyle.Render("Found") + " " + infoStyle.Render(track)
	if r.PageTitle != "" {
		line += " " + dimStyle.Render("("+r.PageTitle+")")
	}
	if r.Cached {
		line += " " + dimStyle.Render("[cached]")
	}
	fmt.Fprintln(status, line)
}

func printCandidates(out io.Writer, attempts []domain.Attempt) {
	for _, a := range attempts {
		fmt.Fprintf(out, "%s %s\n", dimStyle.Render(fmt.Sprintf("%-20s", a.State)), a.URL)
	}
}

func printHistory(out io.Writer, items []domain.Resolution) {
	if len(items) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no resolutions recorded"))
		return
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-20s  %-8s  %s", "WHEN", "STATUS", "TRACK")))
	for _, r := range items {
		status := successStyle.Render(fmt.Sprintf("%-8s", "found"))
		if !r.Resolved {
			status = errorStyle.Render(fmt.Sprintf("%-8s", "missing"))
		}
		fmt.Fprintf(out, "%-20s  %s  %s - %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"), status, strings.Join(r.Artists, ", "), r.Title)
		if r.URL != "" {
			fmt.Fprintln(out, dimStyle.Render("    "+r.URL))
		}
	}
}
