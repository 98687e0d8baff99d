// Package export renders saved commands as a markdown document.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmdsaver/model"
)

// Markdown renders one section per record.
func Markdown(records []model.Record) string {
	var b strings.Builder
	b.WriteString("# Saved Commands\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "## `%s`\n", r.Command)
		fmt.Fprintf(&b, "- **Description**: %s\n", r.Description)
		fmt.Fprintf(&b, "- **Tags**: %s\n", r.TagList())
		fmt.Fprintf(&b, "- **Created**: %s\n", r.CreatedAt)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteMarkdown writes the rendered records to path, replacing it.
func WriteMarkdown(path string, records []model.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(Markdown(records)), 0o644)
}
