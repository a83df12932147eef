package app

import "log/slog"

// Set with -ldflags "-X github.com/heartmarshall/taskboard-backend/internal/app.Version=1.4.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// buildInfo groups the build metadata for the startup log line.
func buildInfo() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("time", BuildTime),
	)
}
