package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// progressReporter is satisfied by both ui.Progress (interactive,
// bubbletea-driven) and ui.SimpleProgress (plain stdout) so
// streamCopyFile doesn't care which one runCopy picked.
type progressReporter interface {
	Increment(int64)
}

// streamCopyFile reads r line by line, splitting each on tabs, and
// sends one CopyData row per non-blank line. A cell holding exactly \N is
// treated as SQL NULL, matching text-format COPY's own convention so
// round-tripping a COPY TO output back through COPY FROM preserves
// nulls.
func streamCopyFile(sess *session, r io.Reader, progress progressReporter) error {
	scanner := bufio.NewScanner(r)
	var rows int64

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		cells := make([]*string, len(fields))
		for i, f := range fields {
			if f == `\N` {
				cells[i] = nil
				continue
			}
			v := f
			cells[i] = &v
		}

		if err := sess.conn.Session.SendCopyData(cells); err != nil {
			return fmt.Errorf("pgproto3cli: send copy row %d: %w", rows+1, err)
		}
		rows++
		progress.Increment(1)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pgproto3cli: read copy source: %w", err)
	}
	return nil
}

// countLines pre-scans f for non-blank lines, then rewinds it to the
// start, so the progress bar has a real total instead of guessing one.
func countLines(f *os.File) (int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	scanner := bufio.NewScanner(f)
	var n int64
	for scanner.Scan() {
		if scanner.Text() != "" {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if n == 0 {
		n = 1
	}
	return n, nil
}
