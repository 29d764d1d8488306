package formatters

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
)

// BlockFormatter formats the body of a code block.
type BlockFormatter func(text string, structured bool) string

// stripCommonIndent removes common leading whitespace from all lines
func stripCommonIndent(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return text
	}

	// Find minimum indent (ignoring empty lines)
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	if minIndent <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			result.WriteString("\n")
		} else {
			if len(line) >= minIndent {
				result.WriteString(line[minIndent:])
			} else {
				result.WriteString(line)
			}
			if i < len(lines)-1 {
				result.WriteString("\n")
			}
		}
	}
	return result.String()
}

// truncateLines keeps at most maxLines lines and summarizes the rest.
// 0 means no limit.
func truncateLines(text string, maxLines int) string {
	if maxLines <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	kept := strings.Join(lines[:maxLines], "\n")
	return kept + fmt.Sprintf("\n... (%d more lines)", len(lines)-maxLines)
}

// FormatQueryBlock formats a GraphQL query, dropping the indentation agents
// tend to carry over from surrounding prose.
func FormatQueryBlock(text string, maxLines int) string {
	return truncateLines(stripCommonIndent(strings.Trim(text, "\n")), maxLines)
}

// FormatJSONBlock formats normalized JSON. Structured text is colorized when
// color is set; text that did not normalize is shown as-is.
func FormatJSONBlock(text string, structured bool, maxLines int, color bool) string {
	if structured && color {
		text = string(pretty.Color([]byte(text), nil))
	}
	return truncateLines(text, maxLines)
}

// MakeQueryFormatter creates a query formatter with the given max lines setting.
func MakeQueryFormatter(maxLines int) BlockFormatter {
	return func(text string, _ bool) string {
		return FormatQueryBlock(text, maxLines)
	}
}

// MakeJSONFormatter creates a JSON formatter with the given settings.
func MakeJSONFormatter(maxLines int, color bool) BlockFormatter {
	return func(text string, structured bool) string {
		return FormatJSONBlock(text, structured, maxLines, color)
	}
}
