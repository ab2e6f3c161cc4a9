// Package logging はslogのデフォルトハンドラーを設定します。
// LOG_FORMAT=json の場合は slog の JSONHandler、それ以外は charmbracelet/log のコンソール出力を使用します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// ParseLevel はLOG_LEVELの文字列をslog.Levelに変換します。未知の値はInfoとして扱います。
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleLevel はslog.Levelをcharmbracelet/logのレベルに変換します。
func consoleLevel(l slog.Level) log.Level {
	switch {
	case l <= slog.LevelDebug:
		return log.DebugLevel
	case l <= slog.LevelInfo:
		return log.InfoLevel
	case l <= slog.LevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// NewHandler はwへ出力するslog.Handlerを生成します。
func NewHandler(w io.Writer, level, format string) slog.Handler {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return log.NewWithOptions(w, log.Options{
		Level:           consoleLevel(lvl),
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
	})
}

// Setup は標準エラー出力向けのロガーを生成し、slogのデフォルトに設定します。
func Setup(level, format string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, level, format))
	slog.SetDefault(logger)
	return logger
}
