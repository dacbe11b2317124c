package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"PathList/internal/gui"
	"PathList/internal/infrastructure/config"
	"PathList/internal/infrastructure/filesystem"
	"PathList/internal/infrastructure/logging"
	"PathList/internal/interface/ui"
	"PathList/internal/usecase/pathset"
	"PathList/internal/usecase/report"
)

const appID = "io.github.pathlist"

func newRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "pathlist [paths...]",
		Short: "ドラッグ＆ドロップでファイルやフォルダのパスを集めるウィンドウを開きます",
		Long: `ファイルやフォルダをウィンドウにドロップしてパスの一覧を作成します。
ウィンドウを閉じると一覧を標準出力（または --output-dir のファイル）に書き出します。
引数に指定したパスは起動時に一覧へ追加されます。`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", fmt.Sprintf("設定ファイル（既定: %s/config.*）", config.DefaultSearchPath()))
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cfg config.Config, args []string, stdout io.Writer) error {
	// ロガーの初期化
	logger := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level).With("app", config.AppName)

	// パス一覧の初期化
	scanner := filesystem.NewScanner(logger)
	set := pathset.New(scanner, logger)
	set.SetRecursionMode(cfg.RecursionMode)

	a := app.NewWithID(appID)
	w := a.NewWindow("PathList")
	w.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	list := gui.NewPathList(set, logger, cfg.QueueSize)
	list.SetDragAndDropEnabled(cfg.DragAndDrop)

	selector := gui.NewPathSelector(scanner, list, w, logger)
	if cfg.NativeDialogs {
		selector.UseNativePicker(ui.NewNativePicker(scanner))
	}

	doneBtn := widget.NewButtonWithIcon("完了", theme.ConfirmIcon(), w.Close)
	w.SetContent(container.NewBorder(selector.Toolbar(), container.NewHBox(layout.NewSpacer(), doneBtn), nil, nil, list))

	if err := list.Attach(w); err != nil {
		return err
	}

	// 引数のパスは 1 件ずつ追加し、失敗しても続行する
	if len(args) > 0 {
		list.Drop(fyne.NewPos(0, 0), fileURIs(args))
	}

	logger.Log("INFO", fmt.Sprintf("ウィンドウを表示します（再帰モード: %s）", set.RecursionMode()), nil)
	w.ShowAndRun()
	list.Detach()

	return writeReport(cfg, list, stdout, logger)
}

// writeReport はパス一覧を出力先に書き出します
func writeReport(cfg config.Config, list *gui.PathList, stdout io.Writer, logger logging.Logger) error {
	generator := report.NewGenerator()
	out := stdout

	if cfg.OutputDir != "" {
		outputFile, outputPath, err := generator.CreateOutputFile(cfg.OutputDir)
		if err != nil {
			logger.Log("ERROR", "出力ファイルの作成に失敗", err)
			return err
		}
		defer outputFile.Close()
		out = outputFile
		logger.Log("INFO", fmt.Sprintf("パス一覧を書き出します: %s", outputPath), nil)
	}

	if err := generator.WritePathList(out, list.Paths()); err != nil {
		logger.Log("ERROR", "パス一覧の出力に失敗", err)
		return err
	}
	logger.Log("INFO", "処理が完了しました", nil)
	return nil
}

// fileURIs は引数のパスをドロップと同じ形式に変換します
func fileURIs(paths []string) []fyne.URI {
	uris := make([]fyne.URI, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		uris = append(uris, storage.NewFileURI(p))
	}
	return uris
}
