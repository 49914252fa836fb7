package review

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
)

var fenceLanguages = map[string]string{
	".py":    "python",
	".go":    "go",
	".js":    "javascript",
	".ts":    "typescript",
	".java":  "java",
	".cpp":   "cpp",
	".cc":    "cpp",
	".c":     "c",
	".rs":    "rust",
	".rb":    "ruby",
	".kt":    "kotlin",
	".swift": "swift",
}

// fence wraps source in a fenced block tagged with the language of filename.
// The fence is longer than any backtick run inside source.
func fence(filename, source string) string {
	lang := fenceLanguages[strings.ToLower(filepath.Ext(filename))]
	marker := strings.Repeat("`", max(3, longestRun(source, '`')+1))
	return marker + lang + "\n" + strings.TrimRight(source, "\n") + "\n" + marker + "\n"
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

// renderSource highlights source for the terminal. Falls back to the raw
// text when rendering fails.
func renderSource(filename, source string, width int) string {
	if strings.TrimSpace(source) == "" {
		return source
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}
	out, err := r.Render(fence(filename, source))
	if err != nil {
		return source
	}
	return strings.Trim(out, "\n")
}
