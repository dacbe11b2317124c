// Package ui はユーザーインターフェース機能を提供します
package ui

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/filesystem"
)

// NativePicker は OS ネイティブのダイアログでフォルダやファイルを選択します
type NativePicker struct {
	// validator はディレクトリパスの検証を行うインターフェースです
	validator filesystem.DirectoryValidator
}

// NewNativePicker は新しい NativePicker インスタンスを作成します
func NewNativePicker(validator filesystem.DirectoryValidator) *NativePicker {
	return &NativePicker{validator: validator}
}

// SelectDirectory はダイアログを表示してディレクトリを選択します
func (p *NativePicker) SelectDirectory(title string) (string, error) {
	selectedDir, err := dialog.Directory().Title(title).Browse()
	return p.acceptDirectory(selectedDir, err)
}

// SelectFile はダイアログを表示してファイルを選択します
func (p *NativePicker) SelectFile(title string) (string, error) {
	selectedFile, err := dialog.File().Title(title).Load()
	if err != nil {
		return "", translateError("ファイル", err)
	}
	return selectedFile, nil
}

// acceptDirectory はダイアログの結果を検証します
func (p *NativePicker) acceptDirectory(selectedDir string, err error) (string, error) {
	if err != nil {
		return "", translateError("ディレクトリ", err)
	}

	if err := p.validator.ValidateDirectoryPath(selectedDir); err != nil {
		return "", fmt.Errorf("無効なディレクトリが選択されました: %w", err)
	}

	return selectedDir, nil
}

// translateError はキャンセルを model.ErrSelectionCancelled に変換します
func translateError(kind string, err error) error {
	if errors.Is(err, dialog.ErrCancelled) {
		return model.ErrSelectionCancelled
	}
	return fmt.Errorf("%sの選択に失敗しました: %w", kind, err)
}
