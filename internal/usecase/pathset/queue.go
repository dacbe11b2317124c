package pathset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"PathList/internal/domain/model"
	"PathList/internal/infrastructure/logging"
)

// DefaultQueueSize はキューに保持できるバッチ数の既定値です
const DefaultQueueSize = 16

var (
	// ErrQueueStopped はワーカーが停止している場合のエラーです
	ErrQueueStopped = errors.New("ドロップキューは停止しています")
	// ErrQueueRunning はワーカーが既に起動している場合のエラーです
	ErrQueueRunning = errors.New("ドロップキューは既に起動しています")
	// ErrQueueFull はキューが満杯の場合のエラーです
	ErrQueueFull = errors.New("ドロップキューが満杯です")
)

type dropBatch struct {
	id    string
	paths []string
}

// DropQueue はドロップされたパスを 1 つのバックグラウンドワーカーで順番に追加します
type DropQueue struct {
	set    *PathSet
	logger logging.Logger
	size   int

	mu         sync.Mutex
	batches    chan dropBatch
	cancel     context.CancelFunc
	done       chan struct{}
	onProgress func(model.ProgressEvent)
}

// NewDropQueue は新しい DropQueue を作成します。size が 1 未満の場合は既定値を使います
func NewDropQueue(set *PathSet, logger logging.Logger, size int) *DropQueue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &DropQueue{set: set, logger: logger, size: size}
}

// SetOnProgress は進捗を受け取る関数を設定します。関数はワーカーの goroutine から呼ばれます
func (q *DropQueue) SetOnProgress(fn func(model.ProgressEvent)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onProgress = fn
}

// Start はワーカーを起動します。ctx がキャンセルされるか Stop が呼ばれると停止します
func (q *DropQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.batches != nil {
		return ErrQueueRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	q.batches = make(chan dropBatch, q.size)
	q.cancel = cancel
	q.done = make(chan struct{})

	go q.run(ctx, q.batches, q.done)
	q.logger.Log("DEBUG", "ドロップキューを起動しました", nil)
	return nil
}

// Stop は新しいバッチの受け付けを止め、キューに残ったバッチを処理し終えるまで待ちます。
// Start に渡した ctx が既にキャンセルされている場合、未処理のバッチは破棄されます
func (q *DropQueue) Stop() {
	q.mu.Lock()
	if q.batches == nil {
		q.mu.Unlock()
		return
	}
	batches, cancel, done := q.batches, q.cancel, q.done
	q.batches, q.cancel, q.done = nil, nil, nil
	// Enqueue は q.mu を保持したまま送信するため、ここで閉じても競合しない
	close(batches)
	q.mu.Unlock()

	<-done
	cancel()

	for b := range batches {
		q.discard(b)
	}
	q.logger.Log("DEBUG", "ドロップキューを停止しました", nil)
}

// Running はワーカーが起動しているかどうかを返します
func (q *DropQueue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.batches != nil
}

// Enqueue はパスのバッチをキューに追加し、バッチの識別子を返します。呼び出しはブロックしません
func (q *DropQueue) Enqueue(paths []string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.batches == nil {
		return "", ErrQueueStopped
	}

	b := dropBatch{id: uuid.NewString(), paths: append([]string(nil), paths...)}
	select {
	case q.batches <- b:
		return b.id, nil
	default:
		return "", ErrQueueFull
	}
}

func (q *DropQueue) run(ctx context.Context, batches <-chan dropBatch, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-batches:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				q.discard(b)
				continue
			}
			q.process(ctx, b)
		}
	}
}

func (q *DropQueue) process(ctx context.Context, b dropBatch) {
	q.mu.Lock()
	progress := q.onProgress
	q.mu.Unlock()

	failed := q.set.AddAll(ctx, b.id, b.paths, progress)
	q.logger.Log("INFO", fmt.Sprintf("バッチ %s の処理が完了しました（%d 件中 %d 件失敗）", b.id, len(b.paths), failed), nil)
}

func (q *DropQueue) discard(b dropBatch) {
	q.logger.Log("WARN", fmt.Sprintf("未処理のバッチ %s を破棄しました（%d 件）", b.id, len(b.paths)), nil)
}
