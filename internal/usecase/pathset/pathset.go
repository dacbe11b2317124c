// Package pathset はパス一覧の追加・削除と再帰モードに従ったディレクトリ展開を提供します
package pathset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/filesystem"
	"PathList/internal/infrastructure/logging"
)

// PathSet は重複のないパスの一覧を保持します。
// 一覧の変更はすべて mu の下で行われ、ファイルシステムへのアクセスはロックの外で行います。
type PathSet struct {
	inspector filesystem.Inspector
	logger    logging.Logger
	mode      atomic.Int32

	mu      sync.RWMutex
	entries *model.PathCollection

	onChanged atomic.Pointer[func()]
}

// New は空の PathSet を作成します
func New(inspector filesystem.Inspector, logger logging.Logger) *PathSet {
	return &PathSet{
		inspector: inspector,
		logger:    logger,
		entries:   model.NewPathCollection(),
	}
}

// SetOnChanged は一覧が変更されたときに呼ばれる関数を設定します。
// 関数はロックの外で呼ばれます。
func (s *PathSet) SetOnChanged(fn func()) {
	if fn == nil {
		s.onChanged.Store(nil)
		return
	}
	s.onChanged.Store(&fn)
}

// SetRecursionMode は再帰モードを設定します。未定義の値は RecursionNone になります
func (s *PathSet) SetRecursionMode(mode model.RecursionMode) {
	s.mode.Store(int32(mode.Normalize()))
}

// RecursionMode は現在の再帰モードを返します
func (s *PathSet) RecursionMode() model.RecursionMode {
	return model.RecursionMode(s.mode.Load())
}

// AddPath はパスを一覧に追加します
func (s *PathSet) AddPath(path string) error {
	return s.AddPathContext(context.Background(), path)
}

// AddPathContext はパスを一覧に追加します。
// ディレクトリは再帰モードに従って展開され、ctx がキャンセルされると展開を中断します。
func (s *PathSet) AddPathContext(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return model.ErrEmptyPath
	}

	exp := &expansion{mode: s.RecursionMode(), visited: make(map[string]struct{})}
	err := s.add(ctx, model.NormalizePath(path), exp)
	if exp.changed {
		s.notify()
	}
	return err
}

// AddPaths はパスを順番に追加します。最初に失敗した時点で中断し、そのエラーを返します
func (s *PathSet) AddPaths(paths ...string) error {
	for _, p := range paths {
		if err := s.AddPath(p); err != nil {
			return err
		}
	}
	return nil
}

// AddAll はドロップされたパスを順番に追加します。
// 個々の失敗は警告としてログに記録して処理を続け、失敗した件数を返します。
// progress が nil でなければパスを 1 つ処理するたびに呼ばれます。
func (s *PathSet) AddAll(ctx context.Context, batchID string, paths []string, progress func(model.ProgressEvent)) int {
	failed := 0
	report := func(done int) {
		if progress == nil {
			return
		}
		event, err := model.NewProgressEvent(batchID, done, len(paths))
		if err != nil {
			s.logger.Log("ERROR", "進捗の計算に失敗", err)
			return
		}
		progress(event)
	}

	report(0)
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			s.logger.Log("WARN", fmt.Sprintf("バッチ %s の処理を中断しました（残り %d 件）", batchID, len(paths)-i), err)
			return failed + len(paths) - i
		}
		if err := s.AddPathContext(ctx, p); err != nil {
			failed++
			s.logger.Log("WARN", fmt.Sprintf("パス '%s' を一覧に追加できませんでした", p), err)
		}
		report(i + 1)
	}
	return failed
}

// RemovePath はパスを一覧から削除します。存在しない場合は何もしません
func (s *PathSet) RemovePath(path string) {
	s.RemovePaths(path)
}

// RemovePaths は複数のパスを一覧から削除します
func (s *PathSet) RemovePaths(paths ...string) {
	removed := false
	s.mu.Lock()
	for _, p := range paths {
		if s.entries.Remove(model.NormalizePath(p)) {
			removed = true
		}
	}
	s.mu.Unlock()

	if removed {
		s.notify()
	}
}

// RemoveAllPaths は一覧を空にします
func (s *PathSet) RemoveAllPaths() {
	s.mu.Lock()
	changed := s.entries.Len() > 0
	s.entries.Clear()
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Paths は一覧のコピーを挿入順で返します
func (s *PathSet) Paths() []model.PathEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Entries()
}

// Contains はパスが一覧に含まれているかどうかを返します
func (s *PathSet) Contains(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Contains(model.NormalizePath(path))
}

// Len は一覧の件数を返します
func (s *PathSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Len()
}

// expansion は 1 回の AddPath 呼び出しの間の状態を保持します
type expansion struct {
	mode    model.RecursionMode
	visited map[string]struct{}
	changed bool
}

func (s *PathSet) add(ctx context.Context, path string, exp *expansion) error {
	if s.Contains(path) {
		return nil
	}

	entry, err := s.inspector.Inspect(path)
	if err != nil {
		return err
	}

	if !entry.IsDir {
		if exp.mode.AcceptsFiles() {
			s.append(entry, exp)
		}
		return nil
	}

	if !exp.mode.Expands() {
		s.append(entry, exp)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// シンボリックリンクによる循環を防ぐ。ディレクトリ自身は追加し、中身の展開だけを省く
	if real, err := filepath.EvalSymlinks(path); err == nil {
		if _, seen := exp.visited[real]; seen {
			s.logger.Log("WARN", fmt.Sprintf("展開済みのディレクトリのため展開をスキップ: %s", path), nil)
			if exp.mode.KeepsDirectory() {
				s.append(entry, exp)
			}
			return nil
		}
		exp.visited[real] = struct{}{}
	}

	children, err := s.inspector.ListChildren(ctx, path, exp.mode)
	if err != nil {
		return err
	}

	if exp.mode.KeepsDirectory() {
		s.append(entry, exp)
	}

	for _, child := range children {
		if err := s.add(ctx, child.Path, exp); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("ディレクトリ '%s' の展開に失敗しました: %w", path, err)
		}
	}
	return nil
}

func (s *PathSet) append(entry model.PathEntry, exp *expansion) {
	s.mu.Lock()
	added := s.entries.Add(entry)
	s.mu.Unlock()

	if added {
		exp.changed = true
	}
}

func (s *PathSet) notify() {
	if fn := s.onChanged.Load(); fn != nil {
		(*fn)()
	}
}
