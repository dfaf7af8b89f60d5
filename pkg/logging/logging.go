package logging

import (
	"log/slog"
	"os"
)

// Options controls handler construction for the default logger.
type Options struct {
	// Level is the minimum level to emit. Defaults to warn, matching the
	// quiet-by-default CLI behavior.
	Level slog.Level

	// JSON selects the JSON handler instead of the text handler.
	JSON bool
}

// SetDefaultStructuredLogger installs a slog default logger that tags every
// record with the tool name and version. All packages log through slog, so
// this is the only place handler configuration happens.
func SetDefaultStructuredLogger(name, version string, opts Options) {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	logger := slog.New(handler).With(
		slog.String("tool", name),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
}

// LevelFor maps the verbose/debug CLI toggles onto a slog level.
// Debug wins over verbose; the default is warn so that a plain run only
// reports problems.
func LevelFor(verbose, debug bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
