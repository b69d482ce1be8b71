// Package diffsource collects diff text from readers, files, or a comparison
// of two files.
package diffsource

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/thomas-vilte/diffmate/internal/errors"
)

// ReadInput returns everything in r as-is.
func ReadInput(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.ErrReadInput.WithError(err)
	}
	return string(data), nil
}

// ReadFile reads a diff from path; "-" reads from stdin.
func ReadFile(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		return ReadInput(stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.ErrReadInput.WithContext("path", path).WithError(err)
	}
	return string(data), nil
}

// CompareFiles renders a single-hunk, full-context unified diff between the
// two files. Identical files produce an empty string.
func CompareFiles(oldPath, newPath string) (string, error) {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return "", errors.ErrReadInput.WithContext("path", oldPath).WithError(err)
	}
	newData, err := os.ReadFile(newPath)
	if err != nil {
		return "", errors.ErrReadInput.WithContext("path", newPath).WithError(err)
	}

	return UnifiedDiff(oldPath, newPath, string(oldData), string(newData)), nil
}

// UnifiedDiff diffs two texts line by line.
func UnifiedDiff(oldName, newName, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var body strings.Builder
	oldCount, newCount := 0, 0

	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			prefix = " "
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range splitLines(d.Text) {
			body.WriteString(prefix)
			body.WriteString(line)
			body.WriteString("\n")

			if d.Type != diffmatchpatch.DiffInsert {
				oldCount++
			}
			if d.Type != diffmatchpatch.DiffDelete {
				newCount++
			}
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", oldName, newName)
	fmt.Fprintf(&out, "@@ -%s +%s @@\n", hunkRange(oldCount), hunkRange(newCount))
	out.WriteString(body.String())
	return out.String()
}

func hunkRange(count int) string {
	if count == 0 {
		return "0,0"
	}
	return fmt.Sprintf("1,%d", count)
}

// splitLines splits text into lines without their trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
