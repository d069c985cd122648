// Package ui renders resolved commits for human review.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/kvit-s/vpatch/internal/patch"
)

// Color definitions for diff rendering
var (
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
	hunkColor   = color.New(color.FgCyan)
	headerColor = color.New(color.FgWhite, color.Bold)
)

// RenderFileChange produces a unified diff for a single resolved change.
// Adds diff against empty content, deletes against empty output.
func RenderFileChange(path string, change patch.FileChange) (string, error) {
	toPath := path
	if change.MovePath != "" {
		toPath = change.MovePath
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(change.OldContent),
		B:        difflib.SplitLines(change.NewContent),
		FromFile: path,
		ToFile:   toPath,
		Context:  3,
	}
	switch change.Type {
	case patch.ActionAdd:
		diff.A = nil
		diff.FromFile = "/dev/null"
	case patch.ActionDelete:
		diff.B = nil
		diff.ToFile = "/dev/null"
	}
	return difflib.GetUnifiedDiffString(diff)
}

// RenderCommit produces one unified diff per change, in commit order.
func RenderCommit(commit *patch.Commit) (string, error) {
	var sb strings.Builder
	for _, path := range commit.Paths() {
		change, _ := commit.Get(path)
		text, err := RenderFileChange(path, change)
		if err != nil {
			return "", fmt.Errorf("render diff for %s: %w", path, err)
		}
		if text == "" {
			continue
		}
		sb.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// Colorize applies terminal colors to an already-rendered unified diff.
func Colorize(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = headerColor.Sprint(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkColor.Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addColor.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = delColor.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}
