// Package repl は対話的にcalcのコードを実行するループを提供する
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/zurustar/calc/pkg/logger"
	"github.com/zurustar/calc/pkg/script"
	"github.com/zurustar/calc/pkg/value"
	"github.com/zurustar/calc/pkg/vm"
)

// プロンプト
const (
	Prompt             = "> "
	ContinuationPrompt = ". "
)

// lineSource は1行ずつ入力を返す。liner.State もこれを満たす
type lineSource interface {
	Prompt(prompt string) (string, error)
}

// scannerSource は端末でない入力を読む。プロンプトは表示しない
type scannerSource struct {
	scanner *bufio.Scanner
}

func (s *scannerSource) Prompt(string) (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// REPL は1つのVMに対する対話セッション
type REPL struct {
	vm          *vm.VM
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	historyFile string
	log         *slog.Logger
}

// Option はREPLの設定を変更する
type Option func(*REPL)

// WithInput 入力元を設定する
func WithInput(in io.Reader) Option {
	return func(r *REPL) { r.in = in }
}

// WithOutput 結果の出力先を設定する
func WithOutput(w io.Writer) Option {
	return func(r *REPL) { r.out = w }
}

// WithErrorOutput エラーの出力先を設定する
func WithErrorOutput(w io.Writer) Option {
	return func(r *REPL) { r.errOut = w }
}

// WithHistoryFile 履歴ファイルを設定する（空なら履歴を保存しない）
func WithHistoryFile(path string) Option {
	return func(r *REPL) { r.historyFile = path }
}

// New REPLを作成する
func New(machine *vm.VM, opts ...Option) *REPL {
	r := &REPL{
		vm:     machine,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run 入力が尽きるか :quit まで実行する
func (r *REPL) Run() error {
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return r.runTerminal()
	}
	r.log.Debug("stdin is not a terminal, reading lines without editing")
	return r.loop(&scannerSource{scanner: bufio.NewScanner(r.in)}, nil)
}

// runTerminal liner で行編集と履歴を有効にして実行する
func (r *REPL) runTerminal() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if r.historyFile != "" {
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(r.historyFile)
			if err != nil {
				r.log.Warn("cannot save history", "path", r.historyFile, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Fprintln(r.out, "calc REPL. Type :quit to exit.")
	return r.loop(ln, func(code string) {
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	})
}

// loop 行を実行単位にまとめて評価する
func (r *REPL) loop(src lineSource, remember func(string)) error {
	var sp script.Splitter
	for {
		prompt := Prompt
		if sp.Pending() {
			prompt = ContinuationPrompt
		}

		line, err := src.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if u, ok := sp.Flush(); ok {
				r.eval(u.Code)
			}
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C は入力途中の単位を破棄する
			sp.Reset()
			continue
		}
		if err != nil {
			return err
		}

		if !sp.Pending() && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if r.command(strings.TrimSpace(line)) {
				return nil
			}
			continue
		}

		unit, ok := sp.Feed(line)
		if !ok {
			continue
		}
		if remember != nil {
			remember(unit.Code)
		}
		r.eval(unit.Code)
	}
}

// command REPLコマンドを実行する。終了する場合はtrue
func (r *REPL) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":vars":
		for _, name := range r.vm.Scope().GlobalNames() {
			fmt.Fprintln(r.out, name)
		}
	default:
		fmt.Fprintf(r.errOut, "unknown command %s. Type :quit to exit.\n", cmd)
	}
	return false
}

// eval 1単位を評価し、値があれば表示する。エラーは表示して続行する
func (r *REPL) eval(code string) {
	v, err := r.vm.RunSource(code)
	if err != nil {
		fmt.Fprintln(r.errOut, err)
		return
	}
	if !value.IsNothing(v) {
		fmt.Fprintln(r.out, v.String())
	}
}
