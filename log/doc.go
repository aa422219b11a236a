// Package log provides a value-typed logging interface based on [log/slog].
//
// Loggers are configured once with functional options and are then
// immutable; [Logger.Wrap] and [Logger.With] derive new ones:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON))
//	logger.Debug("session started", slog.String("file", path))
//
// The package keeps a default logger, adjusted with [Config] and used by
// the package-level functions such as [Info] and [ErrorContext].
//
// Besides the slog levels the package defines [LevelTrace], used by the
// interpreter for per-declaration and per-scope events.
//
// With [WithPretty] enabled, records are rendered by a handler that styles
// keys and values with lipgloss. Styling is dropped when the output is not
// a terminal.
package log
