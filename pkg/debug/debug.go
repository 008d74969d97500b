// Package debug provides category-based debug logging for chatproxy.
//
// Two independent controls:
//   - Categories (WHAT to debug): CHATPROXY_DEBUG env or logging.debug
//   - Levels (HOW MUCH detail): CHATPROXY_LOG_LEVEL env or logging.level
//
// Usage:
//
//	debug.Log("providers", "upstream request", "url", url)
//	if debug.Enabled("providers") { /* expensive formatting */ }
//
// Categories: providers, transport, streaming, credentials, config, all.
// Levels: ERROR, WARN, INFO, DEBUG, TRACE.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

const (
	envCategories = "CHATPROXY_DEBUG"
	envLevel      = "CHATPROXY_LOG_LEVEL"
)

// LevelTrace is below slog.LevelDebug. At TRACE, full upstream request
// bodies are written with Raw.
const LevelTrace = slog.LevelDebug - 4

// categories holds the set of enabled debug categories.
// Read-only after Init.
var categories map[string]bool

// rawOut receives Raw output.
var rawOut io.Writer = os.Stderr

func init() {
	categories = parseCategories(os.Getenv(envCategories))
}

// Init configures categories and the default slog handler. Environment
// values take precedence over the config values passed in. format is
// "text" or "json"; anything else means text.
func Init(configCategories, configLevel, format string) {
	cats := os.Getenv(envCategories)
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv(envLevel)
	if level == "" {
		level = configLevel
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// Enabled reports whether debug output is active for the given category.
// This is a constant-time map lookup with zero allocation.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug message for the given category.
// If the category is not enabled, this is a no-op (zero overhead).
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level message for the given category.
// Only visible when CHATPROXY_LOG_LEVEL=TRACE.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether TRACE level is active for the given category.
func TraceIsEnabled(category string) bool {
	if !Enabled(category) {
		return false
	}
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// Raw writes plain text without slog formatting, for copy-paste-ready
// request bodies. Only emitted when the category is enabled at TRACE.
func Raw(category string, text string) {
	if !TraceIsEnabled(category) {
		return
	}
	fmt.Fprintln(rawOut, text)
}

// ParseLevel converts a level string to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the enabled categories, sorted.
func Categories() []string {
	result := make([]string, 0, len(categories))
	for k := range categories {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	if s == "" {
		return m
	}
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
