package gui

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/filesystem"
	"PathList/internal/usecase/pathset"
)

type mockLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *mockLogger) Log(level, message string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, level+" "+message)
}

func (m *mockLogger) contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if strings.HasPrefix(l, level+" ") && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func newTestPathList(t *testing.T) (*PathList, *mockLogger) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	logger := &mockLogger{}
	set := pathset.New(filesystem.NewScanner(logger), logger)
	return NewPathList(set, logger, 4), logger
}

func createFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte(name), 0644))
	}
	return paths
}

func entryPaths(entries []model.PathEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestPathList_New(t *testing.T) {
	list, _ := newTestPathList(t)

	assert.Empty(t, list.Paths())
	assert.True(t, list.DragAndDropEnabled())
	assert.Equal(t, model.RecursionNone, list.RecursionMode())
	assert.Equal(t, "0 件", list.statusLabel.Text)
}

func TestPathList_AddAndRemove(t *testing.T) {
	list, _ := newTestPathList(t)
	files := createFiles(t, "a.txt", "b.txt", "c.txt")

	var changes int
	list.SetOnChanged(func([]model.PathEntry) { changes++ })

	require.NoError(t, list.AddPaths(files...))
	require.NoError(t, list.AddPath(files[0]))
	assert.Equal(t, files, entryPaths(list.Paths()))
	assert.Equal(t, "3 件", list.statusLabel.Text)

	list.RemovePath(files[1])
	assert.Equal(t, []string{files[0], files[2]}, entryPaths(list.Paths()))

	list.RemovePaths(files[0], files[1])
	assert.Equal(t, []string{files[2]}, entryPaths(list.Paths()))

	list.RemoveAllPaths()
	assert.Empty(t, list.Paths())
	assert.Equal(t, 6, changes)
}

func TestPathList_AddPath_NotFound(t *testing.T) {
	list, _ := newTestPathList(t)

	err := list.AddPath(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPathList_SetRecursionMode(t *testing.T) {
	list, _ := newTestPathList(t)

	list.SetRecursionMode(model.RecursionFilesAndDirectories)
	assert.Equal(t, model.RecursionFilesAndDirectories, list.RecursionMode())

	list.SetRecursionMode(model.RecursionMode(-1))
	assert.Equal(t, model.RecursionNone, list.RecursionMode())
}

func TestPathList_Filter(t *testing.T) {
	list, _ := newTestPathList(t)
	files := createFiles(t, "report.txt", "image.png", "notes.txt")
	require.NoError(t, list.AddPaths(files...))

	list.SetFilter(".txt")
	assert.Equal(t, []string{files[0], files[2]}, entryPaths(list.VisiblePaths()))
	assert.Equal(t, "2 / 3 件", list.statusLabel.Text)
	assert.Len(t, list.Paths(), 3)

	list.SetFilter("")
	assert.Equal(t, files, entryPaths(list.VisiblePaths()))
}

func TestPathList_RemoveSelected(t *testing.T) {
	list, _ := newTestPathList(t)
	w := test.NewWindow(list)
	defer w.Close()

	files := createFiles(t, "a.txt", "b.txt")
	require.NoError(t, list.AddPaths(files...))

	list.list.Select(1)
	assert.False(t, list.removeBtn.Disabled())

	test.Tap(list.removeBtn)
	assert.Equal(t, []string{files[0]}, entryPaths(list.Paths()))
	assert.True(t, list.removeBtn.Disabled())
}

func TestPathList_Drop_Detached(t *testing.T) {
	list, logger := newTestPathList(t)
	files := createFiles(t, "a.txt")
	missing := filepath.Join(t.TempDir(), "missing")
	remote, err := storage.ParseURI("https://example.com/file.txt")
	require.NoError(t, err)

	list.Drop(fyne.NewPos(0, 0), []fyne.URI{
		storage.NewFileURI(missing),
		remote,
		storage.NewFileURI(files[0]),
	})

	// アタッチしていない場合は同期的に処理される
	assert.Equal(t, files, entryPaths(list.Paths()))
	assert.True(t, logger.contains("WARN", "追加できませんでした"))
	assert.True(t, logger.contains("WARN", "ローカルファイルではない"))
}

func TestPathList_Drop_Attached(t *testing.T) {
	list, _ := newTestPathList(t)
	w := test.NewWindow(list)
	defer w.Close()

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	file := filepath.Join(sub, "c.txt")
	require.NoError(t, os.WriteFile(file, []byte("c"), 0644))

	var mu sync.Mutex
	var finished bool
	list.SetOnProgress(func(e model.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if e.Finished() {
			finished = true
		}
	})
	list.SetRecursionMode(model.RecursionFilesAndDirectories)
	require.NoError(t, list.Attach(w))
	defer list.Detach()

	list.Drop(fyne.NewPos(0, 0), []fyne.URI{storage.NewFileURI(dir)})

	require.Eventually(t, func() bool { return len(list.Paths()) == 3 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{dir, sub, file}, entryPaths(list.Paths()))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return finished
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPathList_Detach_AppliesQueuedDrops(t *testing.T) {
	list, logger := newTestPathList(t)
	w := test.NewWindow(list)
	defer w.Close()
	files := createFiles(t, "a.txt", "b.txt", "c.txt")

	require.NoError(t, list.Attach(w))
	for _, f := range files {
		list.Drop(fyne.NewPos(0, 0), []fyne.URI{storage.NewFileURI(f)})
	}
	list.Detach()

	assert.Equal(t, files, entryPaths(list.Paths()))
	assert.False(t, logger.contains("WARN", "破棄しました"))
}

func TestPathList_SetCallbacks_WhileAttached(t *testing.T) {
	list, _ := newTestPathList(t)
	w := test.NewWindow(list)
	defer w.Close()
	files := createFiles(t, "a.txt", "b.txt", "c.txt", "d.txt")
	extra := createFiles(t, "e.txt")[0]

	require.NoError(t, list.Attach(w))
	defer list.Detach()

	var mu sync.Mutex
	var changed []model.PathEntry
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, f := range files {
			list.Drop(fyne.NewPos(0, 0), []fyne.URI{storage.NewFileURI(f)})
		}
	}()
	for i := 0; i < 10; i++ {
		list.SetOnProgress(func(model.ProgressEvent) {})
		list.SetOnChanged(func(paths []model.PathEntry) {
			mu.Lock()
			defer mu.Unlock()
			changed = paths
		})
	}
	wg.Wait()

	require.Eventually(t, func() bool { return len(list.Paths()) == len(files) }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, list.AddPath(extra))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changed) == len(files)+1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPathList_Attach_Twice(t *testing.T) {
	list, _ := newTestPathList(t)
	w := test.NewWindow(list)
	defer w.Close()

	require.NoError(t, list.Attach(w))
	assert.Error(t, list.Attach(w))

	list.Detach()
	require.NoError(t, list.Attach(w))
	list.Detach()
}

func TestPathList_Drop_Ignored(t *testing.T) {
	files := createFiles(t, "a.txt")
	drop := []fyne.URI{storage.NewFileURI(files[0])}

	t.Run("ドラッグ＆ドロップ無効", func(t *testing.T) {
		list, _ := newTestPathList(t)
		list.SetDragAndDropEnabled(false)
		assert.False(t, list.DragAndDropEnabled())

		list.Drop(fyne.NewPos(0, 0), drop)
		assert.Empty(t, list.Paths())
	})

	t.Run("ウィジェット無効", func(t *testing.T) {
		list, _ := newTestPathList(t)
		list.Disable()
		assert.True(t, list.filterEntry.Disabled())

		list.Drop(fyne.NewPos(0, 0), drop)
		assert.Empty(t, list.Paths())

		list.Enable()
		list.Drop(fyne.NewPos(0, 0), drop)
		assert.Len(t, list.Paths(), 1)
	})

	t.Run("空のドロップ", func(t *testing.T) {
		list, logger := newTestPathList(t)

		list.Drop(fyne.NewPos(0, 0), nil)
		assert.Empty(t, list.Paths())
		assert.True(t, logger.contains("ERROR", "ドロップされたファイルの取得に失敗"))
	})
}

func TestFilterEntries(t *testing.T) {
	entries := []model.PathEntry{
		{Path: "/data/zeta.txt"},
		{Path: "/data/alpha.txt"},
		{Path: "/data/image.png"},
	}

	assert.Equal(t, entries, filterEntries(entries, ""))
	assert.Equal(t, []model.PathEntry{entries[0], entries[1]}, filterEntries(entries, "txt"))
	assert.Empty(t, filterEntries(entries, "qqq"))
}
