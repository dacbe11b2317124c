// Package gui はGUIを提供します
package gui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sahilm/fuzzy"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/logging"
	"PathList/internal/usecase/pathset"
)

// PathList はファイルシステムのパスを一覧表示し、ドラッグ＆ドロップで追加できるウィジェットです。
// 一覧は重複を持たず、追加順に表示されます。
type PathList struct {
	widget.DisableableWidget

	set    *pathset.PathSet
	queue  *pathset.DropQueue
	logger logging.Logger

	dndEnabled atomic.Bool

	mu       sync.RWMutex
	visible  []model.PathEntry
	filter   string
	selected widget.ListItemID
	window   fyne.Window

	onChanged  func(paths []model.PathEntry)
	onProgress func(event model.ProgressEvent)

	list        *widget.List
	filterEntry *widget.Entry
	statusLabel *widget.Label
	progressBar *widget.ProgressBar
	removeBtn   *widget.Button
	clearBtn    *widget.Button
}

// NewPathList は新しい PathList を作成します。queueSize はドロップキューに保持できるバッチ数です
func NewPathList(set *pathset.PathSet, logger logging.Logger, queueSize int) *PathList {
	p := &PathList{
		set:      set,
		queue:    pathset.NewDropQueue(set, logger, queueSize),
		logger:   logger,
		selected: -1,
	}
	p.dndEnabled.Store(true)
	p.ExtendBaseWidget(p)

	p.list = widget.NewList(
		func() int {
			p.mu.RLock()
			defer p.mu.RUnlock()
			return len(p.visible)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FileIcon()), widget.NewLabel("path placeholder"))
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			p.mu.RLock()
			if id < 0 || id >= len(p.visible) {
				p.mu.RUnlock()
				return
			}
			entry := p.visible[id]
			p.mu.RUnlock()

			row := o.(*fyne.Container)
			icon := row.Objects[0].(*widget.Icon)
			if entry.IsDir {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.FileIcon())
			}
			row.Objects[1].(*widget.Label).SetText(entry.Path)
		},
	)
	p.list.OnSelected = func(id widget.ListItemID) {
		p.mu.Lock()
		p.selected = id
		p.mu.Unlock()
		p.removeBtn.Enable()
	}
	p.list.OnUnselected = func(widget.ListItemID) {
		p.mu.Lock()
		p.selected = -1
		p.mu.Unlock()
		p.removeBtn.Disable()
	}

	p.filterEntry = widget.NewEntry()
	p.filterEntry.SetPlaceHolder("絞り込み...")
	p.filterEntry.OnChanged = p.SetFilter

	p.statusLabel = widget.NewLabel("")
	p.progressBar = widget.NewProgressBar()
	p.progressBar.Max = 100
	p.progressBar.Hide()

	p.removeBtn = widget.NewButtonWithIcon("削除", theme.DeleteIcon(), p.removeSelected)
	p.removeBtn.Disable()
	p.clearBtn = widget.NewButtonWithIcon("すべて削除", theme.ContentClearIcon(), p.RemoveAllPaths)

	p.queue.SetOnProgress(p.handleProgress)
	set.SetOnChanged(p.refreshView)
	p.refreshView()
	return p
}

// SetOnChanged は一覧が変更されたときに呼ばれる関数を設定します。
// ドロップの処理中はワーカーの goroutine から呼ばれます
func (p *PathList) SetOnChanged(fn func(paths []model.PathEntry)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChanged = fn
}

// SetOnProgress はドロップの処理が進むたびに呼ばれる関数を設定します
func (p *PathList) SetOnProgress(fn func(event model.ProgressEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onProgress = fn
}

// CreateRenderer implements fyne.Widget
func (p *PathList) CreateRenderer() fyne.WidgetRenderer {
	bottom := container.NewBorder(nil, nil, p.statusLabel, container.NewHBox(p.removeBtn, p.clearBtn), p.progressBar)
	return widget.NewSimpleRenderer(container.NewBorder(p.filterEntry, bottom, nil, nil, p.list))
}

// AddPath はパスを一覧に追加します。結果は戻った時点で Paths に反映されています
func (p *PathList) AddPath(path string) error {
	return p.set.AddPath(path)
}

// AddPaths はパスを順番に追加し、最初のエラーで中断します
func (p *PathList) AddPaths(paths ...string) error {
	return p.set.AddPaths(paths...)
}

// RemovePath はパスを一覧から削除します
func (p *PathList) RemovePath(path string) {
	p.set.RemovePath(path)
}

// RemovePaths は複数のパスを一覧から削除します
func (p *PathList) RemovePaths(paths ...string) {
	p.set.RemovePaths(paths...)
}

// RemoveAllPaths は一覧を空にします
func (p *PathList) RemoveAllPaths() {
	p.set.RemoveAllPaths()
}

// Paths は一覧のコピーを返します
func (p *PathList) Paths() []model.PathEntry {
	return p.set.Paths()
}

// SetRecursionMode はディレクトリの展開方法を設定します
func (p *PathList) SetRecursionMode(mode model.RecursionMode) {
	p.set.SetRecursionMode(mode)
}

// RecursionMode は現在の展開方法を返します
func (p *PathList) RecursionMode() model.RecursionMode {
	return p.set.RecursionMode()
}

// SetDragAndDropEnabled はドロップを受け付けるかどうかを設定します
func (p *PathList) SetDragAndDropEnabled(enabled bool) {
	p.dndEnabled.Store(enabled)
}

// DragAndDropEnabled はドロップを受け付けるかどうかを返します
func (p *PathList) DragAndDropEnabled() bool {
	return p.dndEnabled.Load()
}

// Disable はウィジェットを無効にし、ドロップも受け付けなくします
func (p *PathList) Disable() {
	p.DisableableWidget.Disable()
	p.filterEntry.Disable()
	p.removeBtn.Disable()
	p.clearBtn.Disable()
}

// Enable はウィジェットを有効にします
func (p *PathList) Enable() {
	p.DisableableWidget.Enable()
	p.filterEntry.Enable()
	p.clearBtn.Enable()
	p.mu.RLock()
	hasSelection := p.selected >= 0
	p.mu.RUnlock()
	if hasSelection {
		p.removeBtn.Enable()
	}
}

// SetFilter は表示するパスをあいまい検索で絞り込みます。一覧の内容自体は変わりません
func (p *PathList) SetFilter(query string) {
	p.mu.Lock()
	p.filter = query
	p.mu.Unlock()
	p.list.UnselectAll()
	p.refreshView()
}

// VisiblePaths は絞り込み後に表示されているパスを返します
func (p *PathList) VisiblePaths() []model.PathEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.PathEntry(nil), p.visible...)
}

// Attach はウィンドウのドロップ先としてウィジェットを登録し、ドロップキューを起動します
func (p *PathList) Attach(w fyne.Window) error {
	if err := p.queue.Start(context.Background()); err != nil {
		return fmt.Errorf("ドロップキューの起動に失敗しました: %w", err)
	}

	p.mu.Lock()
	p.window = w
	p.mu.Unlock()

	w.SetOnDropped(p.Drop)
	p.logger.Log("DEBUG", "ウィンドウにアタッチしました", nil)
	return nil
}

// Detach はドロップキューを停止し、ウィンドウのドロップ先の登録を解除します
func (p *PathList) Detach() {
	p.queue.Stop()

	p.mu.Lock()
	w := p.window
	p.window = nil
	p.mu.Unlock()

	if w != nil {
		w.SetOnDropped(func(fyne.Position, []fyne.URI) {})
	}
}

// Drop はドロップされたファイルを一覧に追加します。
// アタッチ中はバックグラウンドで処理し、そうでなければ呼び出し元で処理します。
// 個々のパスの追加に失敗しても、警告をログに記録して残りの処理を続けます。
func (p *PathList) Drop(_ fyne.Position, uris []fyne.URI) {
	if p.Disabled() || !p.DragAndDropEnabled() {
		p.logger.Log("DEBUG", "ドロップは無効のため無視しました", nil)
		return
	}

	paths, err := droppedPaths(uris)
	if err != nil {
		p.logger.Log("ERROR", "ドロップされたファイルの取得に失敗", err)
		return
	}
	for _, skipped := range nonFileURIs(uris) {
		p.logger.Log("WARN", fmt.Sprintf("ローカルファイルではないためスキップ: %s", skipped), nil)
	}

	batchID, err := p.queue.Enqueue(paths)
	switch {
	case err == nil:
		p.logger.Log("INFO", fmt.Sprintf("%d 件のパスをキューに追加しました（バッチ %s）", len(paths), batchID), nil)
	case errors.Is(err, pathset.ErrQueueStopped):
		p.set.AddAll(context.Background(), "", paths, p.handleProgress)
	default:
		p.logger.Log("ERROR", fmt.Sprintf("%d 件のドロップを処理できませんでした", len(paths)), err)
	}
}

// droppedPaths はドロップされた URI からローカルファイルのパスを取り出します
func droppedPaths(uris []fyne.URI) ([]string, error) {
	if len(uris) == 0 {
		return nil, errors.New("ドロップされたファイルがありません")
	}

	paths := make([]string, 0, len(uris))
	for _, u := range uris {
		if u != nil && u.Scheme() == "file" {
			paths = append(paths, u.Path())
		}
	}
	if len(paths) == 0 {
		return nil, errors.New("ドロップされたデータにローカルファイルが含まれていません")
	}
	return paths, nil
}

func nonFileURIs(uris []fyne.URI) []string {
	var skipped []string
	for _, u := range uris {
		if u != nil && u.Scheme() != "file" {
			skipped = append(skipped, u.String())
		}
	}
	return skipped
}

func (p *PathList) removeSelected() {
	p.mu.RLock()
	id := p.selected
	var path string
	if id >= 0 && id < len(p.visible) {
		path = p.visible[id].Path
	}
	p.mu.RUnlock()

	if path == "" {
		return
	}
	p.list.UnselectAll()
	p.RemovePath(path)
}

func (p *PathList) handleProgress(event model.ProgressEvent) {
	if event.Finished() {
		p.progressBar.Hide()
	} else {
		p.progressBar.Show()
		p.progressBar.SetValue(event.Progress)
	}

	p.mu.RLock()
	fn := p.onProgress
	p.mu.RUnlock()
	if fn != nil {
		fn(event)
	}
}

// refreshView は絞り込みを適用して表示を更新します
func (p *PathList) refreshView() {
	all := p.set.Paths()

	p.mu.Lock()
	p.visible = filterEntries(all, p.filter)
	visible := len(p.visible)
	staleSelection := p.selected >= visible
	fn := p.onChanged
	p.mu.Unlock()

	if staleSelection {
		p.list.UnselectAll()
	}

	status := fmt.Sprintf("%d 件", len(all))
	if visible != len(all) {
		status = fmt.Sprintf("%d / %d 件", visible, len(all))
	}
	p.statusLabel.SetText(status)
	p.list.Refresh()

	if fn != nil {
		fn(all)
	}
}

// filterEntries はあいまい検索に一致するエントリを追加順のまま返します
func filterEntries(entries []model.PathEntry, query string) []model.PathEntry {
	if query == "" {
		return entries
	}

	data := make([]string, len(entries))
	for i, e := range entries {
		data[i] = e.Path
	}
	matches := fuzzy.Find(query, data)

	indexes := make([]int, len(matches))
	for i, m := range matches {
		indexes[i] = m.Index
	}
	sort.Ints(indexes)

	out := make([]model.PathEntry, len(indexes))
	for i, idx := range indexes {
		out[i] = entries[idx]
	}
	return out
}
