package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zurustar/calc/pkg/cli"
	"github.com/zurustar/calc/pkg/config"
	"github.com/zurustar/calc/pkg/fileutil"
	"github.com/zurustar/calc/pkg/logger"
	"github.com/zurustar/calc/pkg/repl"
	"github.com/zurustar/calc/pkg/script"
	"github.com/zurustar/calc/pkg/stdlib"
	"github.com/zurustar/calc/pkg/vm"
)

// ErrScriptFailed はスクリプトの実行が失敗したことを示す
// 詳細はすでにエラー出力に表示されている
var ErrScriptFailed = errors.New("script failed")

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option はApplicationの設定を変更する
type Option func(*Application)

// WithIO 標準入出力を差し替える
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(app *Application) {
		app.stdin = stdin
		app.stdout = stdout
		app.stderr = stderr
	}
}

// New Applicationを作成
func New(opts ...Option) *Application {
	app := &Application{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}
	if app.config.ShowVersion {
		fmt.Fprintln(app.stdout, cli.Version)
		return nil
	}

	// 2. 設定ファイルの読み込み
	if err := app.loadConfig(); err != nil {
		return err
	}

	// 3. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started", "script", app.config.ScriptPath, "encoding", app.config.Encoding)

	// 4. VMの作成とヘッドファイルの実行
	machine, err := app.newVM()
	if err != nil {
		return err
	}
	if err := app.runHeadfiles(machine); err != nil {
		return err
	}

	// 5. スクリプトまたはREPLの実行
	if app.config.ScriptPath == "" {
		app.log.Info("Starting REPL", "history", app.config.HistoryFile)
		return repl.New(machine,
			repl.WithInput(app.stdin),
			repl.WithOutput(app.stdout),
			repl.WithErrorOutput(app.stderr),
			repl.WithHistoryFile(app.config.HistoryFile),
		).Run()
	}

	if err := app.runScript(machine); err != nil {
		return err
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	cfg, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}

// loadConfig 設定ファイルがあれば読み込み、設定値を検証する
func (app *Application) loadConfig() error {
	if path := config.Locate(app.config.ConfigPath); path != "" {
		file, err := config.Load(path)
		if err != nil {
			return err
		}
		app.config.ApplyFile(file)
	}
	return app.config.Validate()
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerWithWriter(app.config.LogLevel, app.stderr); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// newVM 標準モジュールを登録したVMを作成する
// ファイルのimportはスクリプトのあるディレクトリから解決する
func (app *Application) newVM() (*vm.VM, error) {
	baseDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if app.config.ScriptPath != "" {
		abs, err := filepath.Abs(app.config.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve script path: %w", err)
		}
		app.config.ScriptPath = abs
		baseDir = filepath.Dir(abs)
	}

	return vm.New(
		vm.WithLogger(app.log),
		vm.WithStdout(app.stdout),
		vm.WithStdin(app.stdin),
		vm.WithBaseDir(baseDir),
		vm.WithLoader(script.NewLoader(fileutil.NewRealFS(""), app.config.Encoding)),
		vm.WithModules(stdlib.Modules()...),
	), nil
}

// runHeadfiles ヘッドファイルを同じスコープで順に実行する
func (app *Application) runHeadfiles(machine *vm.VM) error {
	for _, head := range app.config.Headfiles {
		abs, err := filepath.Abs(head)
		if err != nil {
			return fmt.Errorf("failed to resolve headfile %s: %w", head, err)
		}
		app.log.Info("Running headfile", "path", abs)
		if _, err := machine.RunFile(abs); err != nil {
			return app.reportError(err)
		}
	}
	return nil
}

// runScript メインスクリプトを実行し、必要なら実行時間を表示する
func (app *Application) runScript(machine *vm.VM) error {
	start := time.Now()
	_, err := machine.RunFile(app.config.ScriptPath)
	if err != nil {
		return app.reportError(err)
	}
	if app.config.Timer {
		fmt.Fprintf(app.stdout, "Executed in: %.3fs.\n", time.Since(start).Seconds())
	}
	return nil
}

// reportError スクリプトのエラーを行番号とコードとともに表示する
// 読み込みエラーなど実行前の失敗はそのまま返す
func (app *Application) reportError(err error) error {
	var rt *vm.RuntimeError
	if !errors.As(err, &rt) {
		app.log.Error("Failed to load script", "error", err)
		return err
	}

	app.log.Error("Script failed", "file", rt.File, "line", rt.Line)
	fmt.Fprintf(app.stderr, "Error occurred at line %d.\n", rt.Line)
	fmt.Fprintf(app.stderr, "  %s\n", rt.Code)
	fmt.Fprintf(app.stderr, "%s\n", rt.Detail())
	return ErrScriptFailed
}
