package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/ui"
)

// colorizedHelpFunc renders Cobra's usage text through styleHelp. Without
// color support the styles are no-ops and the text is unchanged.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, styleHelp(buf.String()))
	}
}

// styleHelp colors section titles, command names in command lists, flag
// names and flag defaults.
func styleHelp(s string) string {
	lines := strings.Split(s, "\n")
	inFlags := false
	for i, line := range lines {
		switch {
		case line == "":
		case !strings.HasPrefix(line, " ") && strings.HasSuffix(line, ":"):
			inFlags = strings.HasSuffix(line, "Flags:")
			lines[i] = ui.RenderAccent(line)
		case inFlags:
			lines[i] = styleFlagLine(line)
		default:
			lines[i] = styleCommandLine(line)
		}
	}
	return strings.Join(lines, "\n")
}

// styleCommandLine colors the name in "  name   description" lines.
func styleCommandLine(line string) string {
	rest, ok := strings.CutPrefix(line, "  ")
	if !ok || strings.HasPrefix(rest, " ") {
		return line
	}
	name, desc, ok := strings.Cut(rest, "  ")
	if !ok || strings.ContainsAny(name, " \t") {
		return line
	}
	return "  " + ui.RenderCommand(name) + "  " + desc
}

// styleFlagLine colors "-u, --username string   usage (default "admin")".
func styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "-") {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	flags, usage, ok := strings.Cut(trimmed, "   ")
	if !ok {
		return indent + ui.RenderCommand(trimmed)
	}
	if at := strings.LastIndex(usage, "(default "); at >= 0 && strings.HasSuffix(usage, ")") {
		usage = usage[:at] + ui.RenderMuted(usage[at:])
	}
	return indent + ui.RenderCommand(flags) + "   " + usage
}
