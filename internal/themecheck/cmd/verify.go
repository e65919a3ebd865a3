package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"

	"themecheck/internal/pipeline"
	"themecheck/internal/snapshot"
	"themecheck/internal/themecheck/styles"
)

// fileReport is the verification outcome of one file.
type fileReport struct {
	Path        string
	Outcome     snapshot.Outcome
	Diagnostics []string
	Detail      string
}

// verify highlights every configured file and checks it against its
// snapshot. Mismatches are collected; only grammar, read, and snapshot I/O
// failures stop the run.
func verify(ctx context.Context, s *session, files []string, update bool) ([]fileReport, error) {
	docs, err := s.runner.Load(files)
	if err != nil {
		return nil, err
	}

	v := snapshot.Verifier{Dir: s.cfg.SnapshotDir, Update: update}
	var reports []fileReport
	err = s.runner.Run(ctx, docs, func(res pipeline.Result) error {
		outcome, err := v.Verify(s.toSnapshot(res))
		rep := fileReport{Path: res.Path, Outcome: outcome, Diagnostics: res.Diagnostics}
		switch {
		case errors.Is(err, snapshot.ErrMismatch):
			rep.Detail = snapshot.Path(s.cfg.SnapshotDir, res.Path)
		case err != nil:
			return err
		}
		reports = append(reports, rep)
		return nil
	})
	return reports, err
}

// mismatchError summarizes failed files, wrapping snapshot.ErrMismatch.
func mismatchError(reports []fileReport) error {
	n := 0
	for _, r := range reports {
		if r.Outcome == snapshot.Mismatched {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files differ from their snapshots: %w", n, len(reports), snapshot.ErrMismatch)
}

// reportMarkdown renders the verification summary as markdown.
func reportMarkdown(themeName string, reports []fileReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# themecheck\n\nTheme `%s`, %d files\n\n", themeName, len(reports))
	sb.WriteString("| File | Result | Notes |\n|---|---|---|\n")
	for _, r := range reports {
		notes := strings.Join(r.Diagnostics, "; ")
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", r.Path, r.Outcome, strings.ReplaceAll(notes, "|", `\|`))
	}

	var failed []fileReport
	for _, r := range reports {
		if r.Outcome == snapshot.Mismatched {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		sb.WriteString("\n## Mismatches\n\n")
		for _, r := range failed {
			base := strings.TrimSuffix(r.Detail, ".json")
			fmt.Fprintf(&sb, "- `%s`: see `%s.diff` and `%s.actual.json`\n", r.Path, base, base)
		}
	}
	return sb.String()
}

// writeReport prints the summary, rendered with glamour on a terminal.
func writeReport(w io.Writer, themeName string, reports []fileReport) {
	md := reportMarkdown(themeName, reports)
	if isTerminal(w) {
		md = styles.RenderMarkdown(md, 100)
	}
	fmt.Fprintln(w, md)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
