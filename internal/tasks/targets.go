package tasks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// ParseIssue describes one rejected line of a targets file.
type ParseIssue struct {
	Line int    // 1-based line number
	Text string // Raw line content
	Err  error
}

func (i ParseIssue) String() string {
	return fmt.Sprintf("line %d: %v", i.Line, i.Err)
}

// ParseTargets reads artist targets from r, one per line.
//
// Blank lines and lines starting with '#' are skipped. Every other line must
// parse as "Name" or "Name | tag1 | tag2". Rejected lines are collected as
// issues rather than aborting, so a validation pass can report all of them;
// the returned error covers only read failures.
func ParseTargets(r io.Reader) ([]models.ArtistTarget, []ParseIssue, error) {
	var targets []models.ArtistTarget
	var issues []ParseIssue

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		target, err := models.ParseTarget(line)
		if err != nil {
			issues = append(issues, ParseIssue{Line: lineNo, Text: line, Err: err})
			continue
		}
		targets = append(targets, target)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read targets: %w", err)
	}

	return targets, issues, nil
}

// LoadTargetsFile reads and parses the targets file at path, failing on the
// first rejected line. Sync runs require a clean file; the validate command
// uses [ParseTargets] directly to report every issue at once.
func LoadTargetsFile(path string) ([]models.ArtistTarget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	targets, issues, err := ParseTargets(f)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %s (%d invalid lines in %s)",
			shared.ErrInvalidInput, issues[0], len(issues), path)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no targets in %s", shared.ErrInvalidInput, path)
	}

	return targets, nil
}
