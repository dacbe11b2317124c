package model

import "errors"

var (
	// ErrEmptyPath はパスが指定されていない場合のエラーです
	ErrEmptyPath = errors.New("パスが指定されていません")
	// ErrNotFound はパスが存在しない場合のエラーです
	ErrNotFound = errors.New("パスが存在しません")
	// ErrAccessDenied はパスを読み取れない場合のエラーです
	ErrAccessDenied = errors.New("パスを読み取る権限がありません")
	// ErrInvalidState は通常ファイルでもディレクトリでもない場合のエラーです
	ErrInvalidState = errors.New("通常ファイルでもディレクトリでもありません")
	// ErrSelectionCancelled はユーザーが選択をキャンセルした場合のエラーです
	ErrSelectionCancelled = errors.New("選択がキャンセルされました")
	// ErrInvalidProgress は進捗値が範囲外の場合のエラーです
	ErrInvalidProgress = errors.New("進捗値が不正です")
)
