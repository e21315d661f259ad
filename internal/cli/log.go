// Package cli implements the geometry-mcp command-line interface.
//
// The root command serves MCP over stdio, which is what MCP clients launch.
// The subcommands run the same transforms from a shell:
//   - serve: the MCP server (same as the root command)
//   - apply: run a TOML recipe over an image and its annotations
//   - ops: print which annotation kinds each operation supports
//
// # Logging
//
// Logs go to stderr because stdout carries the MCP protocol. All commands
// support --verbose (-v) for debug-level logging, as does setting
// IMAGE_MCP_LOG_LEVEL=debug. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// logLevelEnv selects debug logging when set to "debug".
const logLevelEnv = "IMAGE_MCP_LOG_LEVEL"

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel picks the level from the --verbose flag and the environment.
func logLevel(verbose bool) log.Level {
	if verbose || strings.EqualFold(os.Getenv(logLevelEnv), "debug") {
		return log.DebugLevel
	}
	return log.InfoLevel
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with l attached, also under the key
// log.FromContext reads.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return log.WithContext(context.WithValue(ctx, loggerKey, l), l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
