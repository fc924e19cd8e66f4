package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zurustar/calc/pkg/config"
	"github.com/zurustar/calc/pkg/logger"
	"github.com/zurustar/calc/pkg/script"
)

// Version はcalcのバージョン文字列
const Version = "calc 0.3.0"

// DefaultHistoryFile はホームディレクトリに置くREPL履歴ファイル名
const DefaultHistoryFile = ".calc_history"

// 環境変数名
const (
	EnvLogLevel = "CALC_LOG_LEVEL"
	EnvEncoding = "CALC_ENCODING"
	EnvHistory  = "CALC_HISTORY"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	ScriptPath  string   // 実行するスクリプト（空ならREPL）
	LogLevel    string   // ログレベル（debug, info, warn, error）
	Encoding    string   // スクリプトの文字コード
	Timer       bool     // 実行時間を表示する
	Headfiles   []string // 先に実行するスクリプト
	ConfigPath  string   // 設定ファイルのパス
	HistoryFile string   // REPLの履歴ファイル
	ShowHelp    bool     // ヘルプ表示フラグ
	ShowVersion bool     // バージョン表示フラグ

	// set はコマンドラインか環境変数で指定された項目（設定ファイルより優先）
	set map[string]bool
}

// headfileList は繰り返し指定できる -H フラグ
type headfileList struct {
	files *[]string
}

func (h headfileList) String() string {
	if h.files == nil {
		return ""
	}
	return strings.Join(*h.files, ",")
}

func (h headfileList) Set(v string) error {
	*h.files = append(*h.files, v)
	return nil
}

// ParseArgs コマンドライン引数と環境変数を解析してConfigを返す
// 優先順位: コマンドラインフラグ > 環境変数 > 設定ファイル（ApplyFile） > デフォルト
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &Config{set: make(map[string]bool)}

	fs.StringVar(&cfg.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&cfg.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.StringVar(&cfg.Encoding, "encoding", script.DefaultEncoding, "スクリプトの文字コード")
	fs.StringVar(&cfg.Encoding, "e", script.DefaultEncoding, "スクリプトの文字コード（短縮形）")
	fs.BoolVar(&cfg.Timer, "timer", false, "実行時間を表示")
	fs.BoolVar(&cfg.Timer, "t", false, "実行時間を表示（短縮形）")
	fs.Var(headfileList{&cfg.Headfiles}, "headfile", "先に実行するスクリプト（複数指定可）")
	fs.Var(headfileList{&cfg.Headfiles}, "H", "先に実行するスクリプト（短縮形）")
	fs.StringVar(&cfg.ConfigPath, "config", "", "設定ファイルのパス")
	fs.StringVar(&cfg.ConfigPath, "c", "", "設定ファイルのパス（短縮形）")
	fs.StringVar(&cfg.HistoryFile, "history", "", "REPLの履歴ファイル")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "ヘルプを表示（短縮形）")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "バージョンを表示")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "バージョンを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 短縮形と長い形を同じ項目として記録する
	aliases := map[string]string{"l": "log-level", "e": "encoding", "t": "timer", "H": "headfile", "c": "config"}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		cfg.set[name] = true
	})

	// 環境変数からの設定（コマンドラインフラグが優先）
	cfg.fromEnv("log-level", EnvLogLevel, func(v string) { cfg.LogLevel = strings.ToLower(v) })
	cfg.fromEnv("encoding", EnvEncoding, func(v string) { cfg.Encoding = v })
	cfg.fromEnv("history", EnvHistory, func(v string) { cfg.HistoryFile = v })
	if !cfg.set["config"] {
		cfg.ConfigPath = os.Getenv(config.EnvConfig)
	}

	// 位置引数（スクリプトのパス）
	if fs.NArg() > 0 {
		cfg.ScriptPath = fs.Arg(0)
	}

	return cfg, nil
}

func (c *Config) fromEnv(name, env string, apply func(string)) {
	if c.set[name] {
		return
	}
	if v := os.Getenv(env); v != "" {
		apply(v)
		c.set[name] = true
	}
}

// ApplyFile フラグでも環境変数でも指定されていない項目を設定ファイルで埋める
func (c *Config) ApplyFile(f *config.File) {
	if f == nil {
		return
	}
	if !c.set["log-level"] && f.LogLevel != "" {
		c.LogLevel = strings.ToLower(f.LogLevel)
	}
	if !c.set["encoding"] && f.Encoding != "" {
		c.Encoding = f.Encoding
	}
	if !c.set["timer"] && f.Timer {
		c.Timer = true
	}
	if !c.set["headfile"] && len(f.Headfiles) > 0 {
		c.Headfiles = append([]string(nil), f.Headfiles...)
	}
	if !c.set["history"] && f.HistoryFile != "" {
		c.HistoryFile = f.HistoryFile
	}
}

// Validate 設定値を検証し、未指定の履歴ファイルにデフォルトを入れる
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if _, err := script.Decode(nil, c.Encoding); err != nil {
		return fmt.Errorf("invalid encoding: %s", c.Encoding)
	}
	if c.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, DefaultHistoryFile)
		}
	}
	return nil
}

// boolFlags は値を取らないフラグ
var boolFlags = map[string]bool{
	"-h": true, "--help": true,
	"-v": true, "--version": true,
	"-t": true, "--timer": true,
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// -l debug のように値が続く場合は一緒に移動する
			if !boolFlags[arg] && !strings.Contains(arg, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}

	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `%s - a small scripting language

Usage:
  calc [options] [script]

Arguments:
  script        実行するスクリプトファイル（省略するとREPLを起動）

Options:
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  -e, --encoding <name>       スクリプトの文字コード（デフォルト: utf-8、例: sjis）
  -t, --timer                 実行時間を表示
  -H, --headfile <path>       先に実行するスクリプト（複数指定可）
  -c, --config <path>         設定ファイル（デフォルト: ~/.calc.yml）
      --history <path>        REPLの履歴ファイル（デフォルト: ~/.calc_history）
  -v, --version               バージョンを表示
  -h, --help                  このヘルプを表示

Environment Variables:
  CALC_LOG_LEVEL=<level>      ログレベル
  CALC_ENCODING=<name>        スクリプトの文字コード
  CALC_CONFIG=<path>          設定ファイル
  CALC_HISTORY=<path>         REPLの履歴ファイル

Examples:
  calc                        REPLを起動
  calc main.calc              スクリプトを実行
  calc -t -H lib.calc main.calc
  calc --encoding sjis old.calc
`, Version)
}
