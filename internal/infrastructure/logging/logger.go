// Package logging はロギング機能を提供します
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// 出力フォーマット
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Logger は構造化ログを出力するためのインターフェースです
type Logger interface {
	Log(level, message string, err error)
}

// JSONLogger は zerolog を使ってログを出力するロガーです
type JSONLogger struct {
	logger zerolog.Logger
}

// NewJSONLogger は JSON フォーマットで出力する JSONLogger を作成します
func NewJSONLogger(writer io.Writer) *JSONLogger {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONLogger{logger: zerolog.New(writer).With().Timestamp().Logger()}
}

// NewConsoleLogger は人が読みやすい形式で出力する JSONLogger を作成します
func NewConsoleLogger(writer io.Writer) *JSONLogger {
	if writer == nil {
		writer = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        writer,
		TimeFormat: time.Kitchen,
	}
	return &JSONLogger{logger: zerolog.New(console).With().Timestamp().Logger()}
}

// New はフォーマットとレベルを指定してロガーを作成します。
// 不明なフォーマットは JSON として扱います。
func New(writer io.Writer, format, level string) *JSONLogger {
	var l *JSONLogger
	if strings.EqualFold(format, FormatConsole) {
		l = NewConsoleLogger(writer)
	} else {
		l = NewJSONLogger(writer)
	}
	return l.WithLevel(level)
}

// WithLevel は指定レベル未満のログを出力しないロガーを返します
func (l *JSONLogger) WithLevel(level string) *JSONLogger {
	return &JSONLogger{logger: l.logger.Level(parseLevel(level))}
}

// With はフィールドを付与したロガーを返します
func (l *JSONLogger) With(key, value string) *JSONLogger {
	return &JSONLogger{logger: l.logger.With().Str(key, value).Logger()}
}

// Log はメッセージをログ出力します
func (l *JSONLogger) Log(level, message string, err error) {
	l.logger.WithLevel(parseLevel(level)).Err(err).Msg(message)
}

// parseLevel はログレベル文字列（INFO, WARN, ERROR等）を zerolog のレベルに変換します
// ValidateLevel はログレベルの名前が有効かどうかを確認します。空文字は info として扱います
func ValidateLevel(level string) error {
	_, err := lookupLevel(level)
	return err
}

// parseLevel は不明なレベルを info として扱います
func parseLevel(level string) zerolog.Level {
	parsed, err := lookupLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return parsed
}

func lookupLevel(level string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	}

	parsed, err := zerolog.ParseLevel(name)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("不明なログレベルです: %q", level)
	}
	return parsed, nil
}
