package model

import (
	"fmt"
	"strings"
)

// RecursionMode はディレクトリを追加したときの展開方法を表します
type RecursionMode int

const (
	// RecursionNone はディレクトリを展開せず、そのまま追加します
	RecursionNone RecursionMode = iota
	// RecursionFilesOnly は直下のファイルのみを追加します
	RecursionFilesOnly
	// RecursionDirectoriesOnly はディレクトリ自身とサブディレクトリを再帰的に追加します
	RecursionDirectoriesOnly
	// RecursionFilesAndDirectories はディレクトリ自身と配下のすべてを再帰的に追加します
	RecursionFilesAndDirectories
)

var recursionModeNames = map[RecursionMode]string{
	RecursionNone:                "none",
	RecursionFilesOnly:           "files-only",
	RecursionDirectoriesOnly:     "directories-only",
	RecursionFilesAndDirectories: "files-and-directories",
}

// RecursionModes は有効なモードを定義順に返します
func RecursionModes() []RecursionMode {
	return []RecursionMode{
		RecursionNone,
		RecursionFilesOnly,
		RecursionDirectoriesOnly,
		RecursionFilesAndDirectories,
	}
}

// Valid は定義済みのモードかどうかを返します
func (m RecursionMode) Valid() bool {
	_, ok := recursionModeNames[m]
	return ok
}

// Normalize は未定義の値を RecursionNone に丸めます
func (m RecursionMode) Normalize() RecursionMode {
	if !m.Valid() {
		return RecursionNone
	}
	return m
}

// Expands はディレクトリを展開するモードかどうかを返します
func (m RecursionMode) Expands() bool {
	return m.Normalize() != RecursionNone
}

// AcceptsFiles は通常ファイルを追加するモードかどうかを返します
func (m RecursionMode) AcceptsFiles() bool {
	return m.Normalize() != RecursionDirectoriesOnly
}

// KeepsDirectory は展開したディレクトリ自身も追加するモードかどうかを返します
func (m RecursionMode) KeepsDirectory() bool {
	n := m.Normalize()
	return n == RecursionDirectoriesOnly || n == RecursionFilesAndDirectories
}

// KeepsChild は展開時に子要素を残すかどうかを返します
func (m RecursionMode) KeepsChild(isDir bool) bool {
	switch m.Normalize() {
	case RecursionFilesOnly:
		return !isDir
	case RecursionDirectoriesOnly:
		return isDir
	case RecursionFilesAndDirectories:
		return true
	default:
		return false
	}
}

func (m RecursionMode) String() string {
	return recursionModeNames[m.Normalize()]
}

// ParseRecursionMode はモード名を RecursionMode に変換します
func ParseRecursionMode(name string) (RecursionMode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	if key == "" {
		return RecursionNone, nil
	}
	for mode, n := range recursionModeNames {
		if n == key {
			return mode, nil
		}
	}
	return RecursionNone, fmt.Errorf("不明な再帰モードです: %q", name)
}
