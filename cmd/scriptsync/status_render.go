package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"scriptsync/internal/history"
)

// statusKind grades one line of command output.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

type statusStyle struct {
	tag    string
	colors text.Colors
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {tag: "INFO", colors: text.Colors{text.FgBlue}},
	statusOK:    {tag: "OK", colors: text.Colors{text.FgGreen}},
	statusWarn:  {tag: "WARN", colors: text.Colors{text.FgYellow}},
	statusError: {tag: "ERROR", colors: text.Colors{text.FgRed, text.Bold}},
}

var headerColors = text.Colors{text.FgCyan, text.Bold}

const (
	statusLabelWidth = 14
	statusIndent     = "  "
	// lowSimilarity marks a transcript that probably belongs to another script.
	lowSimilarity = 0.3
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	statusText := "[" + style.tag + "]"
	if message != "" {
		statusText += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		return style.colors.Sprint(line)
	}
	return line
}

// renderSectionHeader underlines title to its display width, so CJK and
// accented titles get a rule of matching length.
func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", text.StringWidthWithoutEscSequences(line))
	if colorize {
		return []string{headerColors.Sprint(line), headerColors.Sprint(rule)}
	}
	return []string{line, rule}
}

func statusKindFor(status history.Status) statusKind {
	switch status {
	case history.StatusSucceeded:
		return statusOK
	case history.StatusPartial:
		return statusWarn
	case history.StatusFailed:
		return statusError
	default:
		return statusInfo
	}
}

func similarityKind(v float64) statusKind {
	if v < lowSimilarity {
		return statusWarn
	}
	return statusOK
}

func anomalyKind(n int) statusKind {
	if n > 0 {
		return statusWarn
	}
	return statusOK
}

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printLines(w io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
