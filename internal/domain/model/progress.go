package model

import "fmt"

// ProgressEvent はドロップされたパスの追加処理の進捗を表します
type ProgressEvent struct {
	// BatchID はドロップ単位の識別子です
	BatchID string
	// Done は処理済みのパス数です
	Done int
	// Total はバッチ内のパス数です
	Total int
	// Progress は 0.0 から 100.0 の進捗率です
	Progress float64
}

// NewProgressEvent は処理済み数と総数から ProgressEvent を作成します
func NewProgressEvent(batchID string, done, total int) (ProgressEvent, error) {
	if done < 0 || total < 0 || done > total {
		return ProgressEvent{}, fmt.Errorf("%w: %d/%d", ErrInvalidProgress, done, total)
	}

	progress := 100.0
	if total > 0 {
		progress = float64(done) * 100 / float64(total)
	}

	return ProgressEvent{
		BatchID:  batchID,
		Done:     done,
		Total:    total,
		Progress: progress,
	}, nil
}

// Finished はバッチの処理が完了したかどうかを返します
func (e ProgressEvent) Finished() bool {
	return e.Done == e.Total
}
