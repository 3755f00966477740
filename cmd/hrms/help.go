package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// "Records:", "Flags:", "Examples:". Usage: is left plain.
	reHeader = regexp.MustCompile(`^[A-Z][A-Za-z ]*:$`)

	// A command row: two-space indent, name, then a gap before the summary.
	reCommandRow = regexp.MustCompile(`^(  )(\S+)(\s{2,}.*)$`)

	// "--timeout duration", "-f, --filter stringArray".
	reFlagType = regexp.MustCompile(`(--?[\w-]+ )(string|int|duration|stringArray)\b`)

	reDefault = regexp.MustCompile(`\(default [^)]*\)`)

	// Browser commands mentioned in long help, e.g. ".refresh".
	reDotCommand = regexp.MustCompile(`(^|\s)(\.[a-z]+)\b`)
)

// colorizedHelpFunc renders cobra's usage text and styles it when stdout
// supports colour.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if cmd.Long != "" {
			fmt.Fprintln(out, colorizeLong(cmd.Long))
			fmt.Fprintln(out)
		} else if cmd.Short != "" {
			fmt.Fprintln(out, cmd.Short)
			fmt.Fprintln(out)
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)

		if !ui.ShouldUseColor() {
			fmt.Fprint(out, buf.String())
			return
		}
		fmt.Fprint(out, colorizeHelpOutput(buf.String()))
	}
}

func colorizeLong(s string) string {
	if !ui.ShouldUseColor() {
		return s
	}
	return reDotCommand.ReplaceAllStringFunc(s, func(m string) string {
		parts := reDotCommand.FindStringSubmatch(m)
		return parts[1] + ui.RenderCommand(parts[2])
	})
}

// colorizeHelpOutput styles usage text line by line. The section a line is
// in decides how it is styled: rows under a command group get the command
// name highlighted, lines under Examples are shown as commands.
func colorizeHelpOutput(s string) string {
	lines := strings.Split(s, "\n")
	section := ""
	for i, line := range lines {
		if reHeader.MatchString(line) {
			section = strings.TrimSuffix(line, ":")
			lines[i] = ui.RenderAccent(line)
			continue
		}
		switch section {
		case "Usage", "":
		case "Examples":
			if trimmed := strings.TrimLeft(line, " "); trimmed != "" {
				lines[i] = line[:len(line)-len(trimmed)] + ui.RenderCommand(trimmed)
			}
		case "Flags", "Global Flags":
			lines[i] = colorizeFlagLine(line)
		default:
			if m := reCommandRow.FindStringSubmatch(line); m != nil {
				lines[i] = m[1] + ui.RenderCommand(m[2]) + m[3]
			}
		}
	}
	return strings.Join(lines, "\n")
}

func colorizeFlagLine(line string) string {
	line = reFlagType.ReplaceAllStringFunc(line, func(m string) string {
		parts := reFlagType.FindStringSubmatch(m)
		return parts[1] + ui.RenderMuted(parts[2])
	})
	return reDefault.ReplaceAllStringFunc(line, ui.RenderMuted)
}
