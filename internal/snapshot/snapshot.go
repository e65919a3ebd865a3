// Package snapshot stores highlighting results as JSON files and verifies
// new results against them.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sergi/go-diff/diffmatchpatch"

	"themecheck/internal/highlight"
)

// ErrMismatch is returned when a result differs from its stored snapshot.
var ErrMismatch = errors.New("snapshot mismatch")

// FormatVersion is written into every snapshot.
const FormatVersion = 1

const (
	ext       = ".json"
	actualExt = ".actual.json"
	diffExt   = ".diff"
)

// Snapshot is the stored highlighting of one file.
type Snapshot struct {
	Version  int               `json:"version"`
	File     string            `json:"file"`
	Language string            `json:"language"`
	Theme    string            `json:"theme,omitempty"`
	Ranges   []highlight.Range `json:"ranges"`
}

// Path returns where the snapshot for file lives under dir. Relative file
// paths keep their directories; absolute ones use the base name.
func Path(dir, file string) string {
	rel := file
	if filepath.IsAbs(file) {
		rel = filepath.Base(file)
	}
	rel = filepath.Clean(rel)
	for up := ".." + string(filepath.Separator); strings.HasPrefix(rel, up); {
		rel = rel[len(up):]
	}
	return filepath.Join(dir, rel+ext)
}

// Read loads a snapshot file.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return &s, nil
}

// Encode renders s the way it is stored.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write stores s at path, creating directories as needed.
func Write(path string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Compare deeply compares two snapshots, ignoring the theme name. A
// difference is reported as ErrMismatch with a structural diff.
func Compare(want, got *Snapshot) error {
	diff := cmp.Diff(want, got,
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(Snapshot{}, "Theme"),
	)
	if diff == "" {
		return nil
	}
	return fmt.Errorf("%w (-want +got):\n%s", ErrMismatch, diff)
}

// TextDiff returns a line diff of two encoded snapshots, with "-" for
// removed and "+" for added lines.
func TextDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// Outcome is the result of verifying one file.
type Outcome int

const (
	Matched Outcome = iota
	Created
	Updated
	Mismatched
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "ok"
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Mismatched:
		return "mismatch"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Verifier checks results against snapshots in Dir.
type Verifier struct {
	Dir string
	// Update rewrites snapshots instead of comparing them.
	Update bool
}

// Verify compares got with its stored snapshot. A missing snapshot is
// created. On mismatch the actual result and a text diff are written next
// to the snapshot and the returned error wraps ErrMismatch.
func (v Verifier) Verify(got *Snapshot) (Outcome, error) {
	path := Path(v.Dir, got.File)
	base := strings.TrimSuffix(path, ext)
	actualPath, diffPath := base+actualExt, base+diffExt

	if v.Update {
		if err := Write(path, got); err != nil {
			return Updated, err
		}
		return Updated, removeArtifacts(actualPath, diffPath)
	}

	want, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Created, Write(path, got)
	}
	if err != nil {
		return Mismatched, err
	}

	if err := Compare(want, got); err != nil {
		wantData, encErr := Encode(want)
		if encErr != nil {
			return Mismatched, encErr
		}
		gotData, encErr := Encode(got)
		if encErr != nil {
			return Mismatched, encErr
		}
		if werr := writeFile(actualPath, gotData); werr != nil {
			return Mismatched, werr
		}
		if werr := writeFile(diffPath, []byte(TextDiff(string(wantData), string(gotData)))); werr != nil {
			return Mismatched, werr
		}
		return Mismatched, fmt.Errorf("%s: %w", got.File, err)
	}
	return Matched, removeArtifacts(actualPath, diffPath)
}

func removeArtifacts(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing stale artifact: %w", err)
		}
	}
	return nil
}
