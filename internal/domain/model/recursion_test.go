package model

import "testing"

func TestRecursionMode_Normalize(t *testing.T) {
	tests := []struct {
		name string
		mode RecursionMode
		want RecursionMode
	}{
		{name: "none", mode: RecursionNone, want: RecursionNone},
		{name: "files-only", mode: RecursionFilesOnly, want: RecursionFilesOnly},
		{name: "directories-only", mode: RecursionDirectoriesOnly, want: RecursionDirectoriesOnly},
		{name: "files-and-directories", mode: RecursionFilesAndDirectories, want: RecursionFilesAndDirectories},
		{name: "負の値", mode: RecursionMode(-1), want: RecursionNone},
		{name: "範囲外の値", mode: RecursionMode(42), want: RecursionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecursionMode_KeepsChild(t *testing.T) {
	tests := []struct {
		mode     RecursionMode
		wantFile bool
		wantDir  bool
	}{
		{mode: RecursionNone, wantFile: false, wantDir: false},
		{mode: RecursionFilesOnly, wantFile: true, wantDir: false},
		{mode: RecursionDirectoriesOnly, wantFile: false, wantDir: true},
		{mode: RecursionFilesAndDirectories, wantFile: true, wantDir: true},
		{mode: RecursionMode(7), wantFile: false, wantDir: false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.KeepsChild(false); got != tt.wantFile {
				t.Errorf("KeepsChild(file) = %v, want %v", got, tt.wantFile)
			}
			if got := tt.mode.KeepsChild(true); got != tt.wantDir {
				t.Errorf("KeepsChild(dir) = %v, want %v", got, tt.wantDir)
			}
		})
	}
}

func TestRecursionMode_Flags(t *testing.T) {
	if RecursionNone.Expands() {
		t.Error("RecursionNone はディレクトリを展開しないはずです")
	}
	if RecursionDirectoriesOnly.AcceptsFiles() {
		t.Error("RecursionDirectoriesOnly はファイルを受け付けないはずです")
	}
	if !RecursionMode(99).AcceptsFiles() {
		t.Error("範囲外の値は RecursionNone として扱われるはずです")
	}
	if RecursionFilesOnly.KeepsDirectory() {
		t.Error("RecursionFilesOnly はディレクトリ自身を追加しないはずです")
	}
	if !RecursionFilesAndDirectories.KeepsDirectory() {
		t.Error("RecursionFilesAndDirectories はディレクトリ自身を追加するはずです")
	}
}

func TestParseRecursionMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RecursionMode
		wantErr bool
	}{
		{name: "空文字", input: "", want: RecursionNone},
		{name: "none", input: "none", want: RecursionNone},
		{name: "大文字とアンダースコア", input: "FILES_ONLY", want: RecursionFilesOnly},
		{name: "directories-only", input: "directories-only", want: RecursionDirectoriesOnly},
		{name: "前後の空白", input: " files-and-directories ", want: RecursionFilesAndDirectories},
		{name: "不明なモード", input: "everything", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecursionMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecursionMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRecursionMode() = %v, want %v", got, tt.want)
			}
		})
	}

	for _, mode := range RecursionModes() {
		got, err := ParseRecursionMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseRecursionMode(%q) = %v, %v", mode.String(), got, err)
		}
	}
}
