package gui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/filesystem"
	"PathList/internal/infrastructure/logging"
)

// PathTarget は、選択されたパスの追加先となるインターフェース
type PathTarget interface {
	AddPath(path string) error
	SetRecursionMode(mode model.RecursionMode)
	RecursionMode() model.RecursionMode
}

// NativePicker は、OS ネイティブのダイアログでパスを選択するインターフェース
type NativePicker interface {
	SelectDirectory(title string) (string, error)
	SelectFile(title string) (string, error)
}

// PathSelector は、ダイアログで選択したフォルダやファイルを PathTarget に追加する構造体
type PathSelector struct {
	validator filesystem.DirectoryValidator
	target    PathTarget
	window    fyne.Window
	logger    logging.Logger
	native    NativePicker
}

// NewPathSelector は、PathSelectorの新しいインスタンスを作成します
func NewPathSelector(validator filesystem.DirectoryValidator, target PathTarget, w fyne.Window, logger logging.Logger) *PathSelector {
	return &PathSelector{
		validator: validator,
		target:    target,
		window:    w,
		logger:    logger,
	}
}

// UseNativePicker は、Fyne のダイアログの代わりにネイティブのダイアログを使うよう設定します
func (s *PathSelector) UseNativePicker(picker NativePicker) {
	s.native = picker
}

// Toolbar は、フォルダ追加・ファイル追加ボタンと再帰モードの選択を並べたコンテナを返します
func (s *PathSelector) Toolbar() fyne.CanvasObject {
	modes := model.RecursionModes()
	options := make([]string, len(modes))
	for i, m := range modes {
		options[i] = m.String()
	}

	modeSelect := widget.NewSelect(options, func(selected string) {
		mode, err := model.ParseRecursionMode(selected)
		if err != nil {
			s.logger.Log("ERROR", "再帰モードの変更に失敗", err)
			return
		}
		s.target.SetRecursionMode(mode)
		s.logger.Log("INFO", fmt.Sprintf("再帰モードを変更しました: %s", mode), nil)
	})
	modeSelect.SetSelected(s.target.RecursionMode().String())

	return container.NewHBox(
		widget.NewButtonWithIcon("フォルダを追加", theme.FolderOpenIcon(), s.SelectDirectory),
		widget.NewButtonWithIcon("ファイルを追加", theme.FileIcon(), s.SelectFile),
		widget.NewLabel("再帰モード:"),
		modeSelect,
	)
}

// SelectDirectory は、フォルダ選択ダイアログを表示し、選択されたフォルダを追加します
func (s *PathSelector) SelectDirectory() {
	if s.native != nil {
		go func() {
			path, err := s.native.SelectDirectory("追加するフォルダを選択")
			s.showError(s.handleDirectory(path, err))
		}()
		return
	}

	dialog.NewFolderOpen(func(selectedURI fyne.ListableURI, err error) {
		// コールバック: ユーザーがディレクトリを選択した結果を受け取る
		path := ""
		if selectedURI != nil {
			path = selectedURI.Path()
		} else if err == nil {
			err = model.ErrSelectionCancelled
		}
		s.showError(s.handleDirectory(path, err))
	}, s.window).Show()
}

// SelectFile は、ファイル選択ダイアログを表示し、選択されたファイルを追加します
func (s *PathSelector) SelectFile() {
	if s.native != nil {
		go func() {
			path, err := s.native.SelectFile("追加するファイルを選択")
			s.showError(s.handleFile(path, err))
		}()
		return
	}

	dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		path := ""
		if reader != nil {
			path = reader.URI().Path()
			reader.Close()
		} else if err == nil {
			err = model.ErrSelectionCancelled
		}
		s.showError(s.handleFile(path, err))
	}, s.window).Show()
}

// handleDirectory は、選択されたフォルダを検証して追加します。キャンセルはエラーとして扱いません
func (s *PathSelector) handleDirectory(path string, err error) error {
	if errors.Is(err, model.ErrSelectionCancelled) {
		s.logger.Log("INFO", "フォルダの選択がキャンセルされました", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("フォルダ選択エラー: %w", err)
	}
	if err := s.validator.ValidateDirectoryPath(path); err != nil {
		return fmt.Errorf("パス検証エラー: %w", err)
	}
	if err := s.target.AddPath(path); err != nil {
		return fmt.Errorf("フォルダ '%s' を追加できませんでした: %w", path, err)
	}
	return nil
}

// handleFile は、選択されたファイルを追加します。キャンセルはエラーとして扱いません
func (s *PathSelector) handleFile(path string, err error) error {
	if errors.Is(err, model.ErrSelectionCancelled) {
		s.logger.Log("INFO", "ファイルの選択がキャンセルされました", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("ファイル選択エラー: %w", err)
	}
	if err := s.target.AddPath(path); err != nil {
		return fmt.Errorf("ファイル '%s' を追加できませんでした: %w", path, err)
	}
	return nil
}

func (s *PathSelector) showError(err error) {
	if err == nil {
		return
	}
	s.logger.Log("ERROR", "パスの追加に失敗", err)
	if s.window != nil {
		dialog.ShowError(err, s.window)
	}
}
