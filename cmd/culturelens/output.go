package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kalambet/culturelens/internal/gap"
)

// style is an ANSI SGR sequence.
type style string

const (
	styleReset  style = "\033[0m"
	styleRed    style = "\033[31m"
	styleGreen  style = "\033[32m"
	styleYellow style = "\033[33m"
	styleCyan   style = "\033[36m"
	styleBold   style = "\033[1m"
)

// messages receives status lines so that stdout stays clean for tables and
// Markdown that users pipe elsewhere.
var messages io.Writer = os.Stderr

func paint(s style, text string) string {
	if noColor {
		return text
	}
	return string(s) + text + string(styleReset)
}

func notify(mark string, s style, format string, args []any) {
	fmt.Fprintln(messages, paint(s, mark+" "+fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { notify("✓", styleGreen, format, args) }
func printError(format string, args ...any)   { notify("✗", styleRed, format, args) }
func printWarning(format string, args ...any) { notify("⚠", styleYellow, format, args) }

func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(messages, "  %s %s\n", paint(styleBold, label+":"), fmt.Sprintf(format, args...))
}

var significanceStyles = map[gap.Significance]style{
	gap.High:   styleRed,
	gap.Medium: styleYellow,
	gap.Low:    styleGreen,
}

func significanceColor(s gap.Significance) string {
	return paint(significanceStyles[s], string(s))
}
