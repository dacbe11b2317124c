// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/logging"
)

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// Inspector はパスの分類とディレクトリの一覧取得を行うインターフェースです
type Inspector interface {
	Inspect(path string) (model.PathEntry, error)
	ListChildren(ctx context.Context, dir string, mode model.RecursionMode) ([]model.PathEntry, error)
}

// Scanner はファイルシステムを調べるための構造体です
type Scanner struct {
	logger logging.Logger
}

// NewScanner は新しい Scanner インスタンスを作成します
func NewScanner(logger logging.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// ValidateDirectoryPath はパスが安全で有効なディレクトリであることを確認します
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("ディレクトリパスが指定されていません")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ディレクトリが存在しません: %w", err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("指定されたパスはディレクトリではありません")
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("絶対パスで指定してください")
	}

	if strings.ContainsAny(path, "<>|?*") {
		return fmt.Errorf("パスに不正な文字が含まれています")
	}

	return nil
}

// Inspect はパスの存在、読み取り権限、種類を確認し PathEntry を返します。
// パスは正規化済みであることを前提とします。
func (s *Scanner) Inspect(path string) (model.PathEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.PathEntry{}, classifyError(path, err)
	}

	entry := model.PathEntry{Path: path, IsDir: info.IsDir()}
	if !info.Mode().IsRegular() && !info.IsDir() {
		return model.PathEntry{}, fmt.Errorf("%w: %s (%s)", model.ErrInvalidState, path, info.Mode().Type())
	}

	// FIFO などで Open がブロックしないよう、種類を確認してから開く
	f, err := os.Open(path)
	if err != nil {
		return model.PathEntry{}, classifyError(path, err)
	}
	f.Close()

	return entry, nil
}

// ListChildren はディレクトリ直下の要素をモードに従って絞り込み、名前順で返します。
// 通常ファイルでもディレクトリでもない要素は警告を出してスキップします。
func (s *Scanner) ListChildren(ctx context.Context, dir string, mode model.RecursionMode) ([]model.PathEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ディレクトリ '%s' の読み込みに失敗しました: %w", dir, classifyError(dir, err))
	}

	children := make([]model.PathEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, d.Name())
		// シンボリックリンクはリンク先の種類で判定する
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Log("WARN", fmt.Sprintf("パス '%s' の情報を取得できないためスキップ", path), err)
			continue
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			s.logger.Log("WARN", fmt.Sprintf("通常ファイルでもディレクトリでもないためスキップ: %s", path), nil)
			continue
		}
		if !mode.KeepsChild(info.IsDir()) {
			continue
		}

		children = append(children, model.PathEntry{Path: path, IsDir: info.IsDir()})
	}

	return children, nil
}

// classifyError は os のエラーをドメインのエラーに変換します
func classifyError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", model.ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", model.ErrAccessDenied, path)
	default:
		return fmt.Errorf("パス '%s' の確認に失敗しました: %w", path, err)
	}
}
