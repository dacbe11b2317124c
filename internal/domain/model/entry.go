// package model はドメインモデルを定義します
package model

import "path/filepath"

// PathEntry はリストに表示されるファイルシステムの要素（ファイルまたはディレクトリ）を表します。
// 2 つのエントリは Path が一致すれば同一とみなします。
type PathEntry struct {
	// Path は正規化された絶対パスを表します
	Path string
	// IsDir はディレクトリであるかどうかを示します
	IsDir bool
}

// Name はパスの末尾の要素を返します
func (e PathEntry) Name() string {
	return filepath.Base(e.Path)
}

// NormalizePath はパスを絶対パスに変換し、冗長な要素を取り除きます。
// カレントディレクトリが取得できない場合は Clean のみを適用します。
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
