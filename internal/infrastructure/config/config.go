// Package config は設定ファイル・環境変数・コマンドラインフラグから設定を読み込みます
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/logging"
	"PathList/internal/usecase/pathset"
)

const (
	// AppName は設定ディレクトリ名と環境変数の接頭辞に使われます
	AppName   = "pathlist"
	envPrefix = "PATHLIST"

	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

// Config はアプリケーションの設定を保持します
type Config struct {
	RecursionMode model.RecursionMode
	DragAndDrop   bool
	QueueSize     int
	NativeDialogs bool
	OutputDir     string
	Window        WindowConfig
	Log           LogConfig
}

// WindowConfig はウィンドウの設定を保持します
type WindowConfig struct {
	Width  float32
	Height float32
}

// LogConfig はログ出力の設定を保持します
type LogConfig struct {
	Level  string
	Format string
}

// フラグ名と設定キーの対応
var flagKeys = map[string]string{
	"recursion":      "recursion_mode",
	"dnd":            "drag_and_drop",
	"queue-size":     "queue_size",
	"native-dialogs": "native_dialogs",
	"output-dir":     "output_dir",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// RegisterFlags は設定を上書きするフラグを登録します
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("recursion", model.RecursionNone.String(), "ディレクトリの展開方法 (none|files-only|directories-only|files-and-directories)")
	flags.Bool("dnd", true, "ドラッグ＆ドロップを有効にする")
	flags.Int("queue-size", pathset.DefaultQueueSize, "ドロップキューに保持できるバッチ数")
	flags.Bool("native-dialogs", false, "OS ネイティブの選択ダイアログを使う")
	flags.String("output-dir", "", "終了時にパス一覧を書き出すディレクトリ（空の場合は標準出力）")
	flags.String("log-level", "info", "ログレベル (debug|info|warn|error)")
	flags.String("log-format", logging.FormatJSON, "ログフォーマット (json|console)")
}

// DefaultSearchPath は設定ファイルを探すディレクトリを返します
func DefaultSearchPath() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load は設定を読み込みます。優先順位はフラグ、環境変数 PATHLIST_*、設定ファイル、既定値の順です。
// path が空の場合は DefaultSearchPath の config.* を探し、見つからなければ既定値を使います。
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("recursion_mode", model.RecursionNone.String())
	v.SetDefault("drag_and_drop", true)
	v.SetDefault("queue_size", pathset.DefaultQueueSize)
	v.SetDefault("native_dialogs", false)
	v.SetDefault("output_dir", "")
	v.SetDefault("window.width", DefaultWindowWidth)
	v.SetDefault("window.height", DefaultWindowHeight)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatJSON)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultSearchPath())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("フラグ %s のバインドに失敗しました: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}

	mode, err := model.ParseRecursionMode(v.GetString("recursion_mode"))
	if err != nil {
		return Config{}, err
	}

	c := Config{
		RecursionMode: mode,
		DragAndDrop:   v.GetBool("drag_and_drop"),
		QueueSize:     v.GetInt("queue_size"),
		NativeDialogs: v.GetBool("native_dialogs"),
		OutputDir:     v.GetString("output_dir"),
		Window: WindowConfig{
			Width:  float32(v.GetFloat64("window.width")),
			Height: float32(v.GetFloat64("window.height")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size は 1 以上で指定してください: %d", c.QueueSize)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("ウィンドウサイズが不正です: %vx%v", c.Window.Width, c.Window.Height)
	}
	if err := logging.ValidateLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("不明なログフォーマットです: %q", c.Log.Format)
	}
	return nil
}
