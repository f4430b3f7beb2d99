package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// stdout receives every status line. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // module names, counts, group labels
	colorOK     = lipgloss.Color("35")  // written files, cache hits
	colorWarn   = lipgloss.Color("220") // empty inputs
	colorFail   = lipgloss.Color("167") // failed stages
	colorLink   = lipgloss.Color("75")  // URLs and suggested commands
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = StyleHighlight
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = StyleHighlight
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleKey         = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusIcons pairs each status line kind with its marker.
var statusIcons = map[string]string{
	"ok":   lipgloss.NewStyle().Foreground(colorOK).Render(iconSuccess),
	"fail": styleIconError.Render(iconError),
	"warn": StyleWarning.Render(iconWarning),
	"info": lipgloss.NewStyle().Foreground(colorLabel).Render(iconInfo),
}

func status(kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == "warn" {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(stdout, statusIcons[kind]+" "+msg)
}

func printSuccess(format string, args ...any) { status("ok", format, args...) }
func printError(format string, args ...any)   { status("fail", format, args...) }
func printWarning(format string, args ...any) { status("warn", format, args...) }
func printInfo(format string, args ...any)    { status("info", format, args...) }

// printDetail prints an indented muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written diagram or overview.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints one line of diagram counts, stage timings and whether
// the type model came from the cache:
//
//	12 types · 9 relationships · 3 groups · load 1.2s · model cached
func printStats(stats pipeline.Stats, info pipeline.CacheInfo) {
	var parts []string
	for _, c := range []struct {
		n    int
		noun string
	}{
		{stats.TypeCount, "type"},
		{stats.EdgeCount, "relationship"},
		{stats.GroupCount, "group"},
	} {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(plural(c.n, c.noun)))
		}
	}
	if stats.LoadTime > 0 {
		parts = append(parts, StyleDim.Render("load "+stats.LoadTime.Round(time.Millisecond).String()))
	}
	if info.LoadHit {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorOK).Render("model cached"))
	} else {
		parts = append(parts, StyleDim.Render("model loaded"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// plural formats "1 type" or "3 types".
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printInline prints a muted message without a trailing newline, for the
// watch status line that each rerun overwrites.
func printInline(format string, args ...any) {
	fmt.Fprint(stdout, StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
