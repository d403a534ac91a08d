package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup builds the application logger. Output goes to stdout and, when
// logPath is non-empty, to an append-only log file. The returned closer
// closes the file.
func Setup(logPath string, debug bool) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if logPath != "" {
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	return slog.New(NewCompactHandler(out, level)), closer, nil
}
