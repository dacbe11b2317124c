// Package report はパス一覧の出力機能を提供します
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"PathList/internal/domain/model"
)

const (
	OutputFilePrefix = "output_"
	OutputFileSuffix = ".txt"
	TimestampLayout  = "20060102_150405"
)

// Generator はパス一覧の出力機能を提供します
type Generator struct {
	now func() time.Time
}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// CreateOutputFile は出力ファイルを作成します
func (g *Generator) CreateOutputFile(outputDir string) (*os.File, string, error) {
	timestamp := g.now().Format(TimestampLayout)
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s%s%s", OutputFilePrefix, timestamp, OutputFileSuffix))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("出力ファイルの作成に失敗しました: %w", err)
	}

	return outputFile, outputPath, nil
}

// WritePathList はフォルダ（[DIR]）とファイル（[FILE]）を追加順に一覧で出力します
func (g *Generator) WritePathList(writer io.Writer, entries []model.PathEntry) error {
	if _, err := fmt.Fprintln(writer, "===== パス一覧 ====="); err != nil {
		return fmt.Errorf("パス一覧の出力に失敗しました: %w", err)
	}

	dirs := 0
	for _, entry := range entries {
		entryType := "[FILE]"
		if entry.IsDir {
			entryType = "[DIR] "
			dirs++
		}
		if _, err := fmt.Fprintf(writer, "%s %s\n", entryType, entry.Path); err != nil {
			return fmt.Errorf("パス一覧の出力に失敗しました: %w", err)
		}
	}

	_, err := fmt.Fprintf(writer, "----- 合計 %d 件（フォルダ %d / ファイル %d）-----\n", len(entries), dirs, len(entries)-dirs)
	if err != nil {
		return fmt.Errorf("パス一覧の出力に失敗しました: %w", err)
	}
	return nil
}
