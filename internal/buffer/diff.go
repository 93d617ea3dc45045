package buffer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffVersion renders the changes from a stored version to the current
// buffer content in a line-oriented +/- format. Read-only.
func (b *Buffer) DiffVersion(ctx context.Context, version int) (string, error) {
	stored, err := b.Version(ctx, version)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	current := ""
	if b.open != nil {
		current = b.open.Content
	}
	b.mu.Unlock()

	dmp := diffmatchpatch.New()
	a, bLines, lines := dmp.DiffLinesToChars(stored.Content, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, bLines, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range splitKeepNonEmpty(d.Text) {
			fmt.Fprintf(&sb, "%s%s\n", prefix, line)
		}
	}
	return sb.String(), nil
}

func splitKeepNonEmpty(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}
