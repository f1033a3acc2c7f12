package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/logging"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 2)
)

func printBanner(port int, authToken, deviceID, sessionID string) {
	rows := []string{
		titleStyle.Render("HEIMDEX TIMELINE"),
		"",
		fmt.Sprintf("API URL:    http://127.0.0.1:%d", port),
		fmt.Sprintf("Auth Token: %s", authToken),
		fmt.Sprintf("Device ID:  %s", logging.SanitizeToken(deviceID)),
		fmt.Sprintf("Session:    %s", sessionID),
	}
	fmt.Println()
	fmt.Println(boxStyle.Render(strings.Join(rows, "\n")))
	fmt.Println()
}

func renderReport(w io.Writer, r *ApplyReport) {
	fmt.Fprintln(w, titleStyle.Render("Replay"))
	for i, a := range r.Actions {
		if i >= len(r.Results) {
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  -  %-22s skipped", a.Type)))
			continue
		}
		fmt.Fprintln(w, resultLine(a.Type, r.Results[i]))
	}

	if len(r.Undone) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Undo"))
		for _, res := range r.Undone {
			fmt.Fprintln(w, resultLine("undo", res))
		}
	}

	if len(r.History) > 0 {
		fmt.Fprintln(w, titleStyle.Render("History"))
		for _, row := range r.History {
			fmt.Fprintln(w, historyLine(row))
		}
	}

	applied := 0
	for _, res := range r.Results {
		if res.Success {
			applied++
		}
	}
	summary := fmt.Sprintf("%d/%d applied, history %d undo / %d redo", applied, len(r.Actions), r.UndoDepth, r.RedoDepth)
	if r.Failed() > 0 {
		fmt.Fprintln(w, failStyle.Render(summary))
		return
	}
	fmt.Fprintln(w, okStyle.Render(summary))
}

func historyLine(row history.DisplayRow) string {
	label := row.Type
	if row.Count > 1 {
		name := row.GroupName
		if name == "" {
			name = row.Type
		}
		label = fmt.Sprintf("%s (%d actions)", name, row.Count)
	}
	line := "     " + label
	if row.Current {
		return okStyle.Render(line + "  <")
	}
	return dimStyle.Render(line)
}

func resultLine(label string, res action.Result) string {
	if res.Success {
		return okStyle.Render(fmt.Sprintf("  ok %-22s %s", label, res.ActionID))
	}
	code := res.Error.Code
	if details := res.Error.DetailCodes(); len(details) > 0 {
		code += " [" + strings.Join(details, ", ") + "]"
	}
	return failStyle.Render(fmt.Sprintf("  !! %-22s %s: %s", label, code, res.Error.Message))
}
