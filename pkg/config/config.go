// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName はホームディレクトリで探す設定ファイル名
const DefaultFileName = ".calc.yml"

// EnvConfig は設定ファイルのパスを指定する環境変数
const EnvConfig = "CALC_CONFIG"

// File は設定ファイルの内容
// 未指定の項目はゼロ値のまま（コマンドラインや環境変数で上書きされる）
type File struct {
	LogLevel    string   `yaml:"log_level"`
	Encoding    string   `yaml:"encoding"`
	Timer       bool     `yaml:"timer"`
	Headfiles   []string `yaml:"headfiles"`
	HistoryFile string   `yaml:"history_file"`
}

// Load 設定ファイルを読み込む
// 未知のキーはエラーにする
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f, path)
}

// Decode rからYAMLを読み込む。空の入力は空の設定として扱う
func Decode(r io.Reader, name string) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg File
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}

	// headfilesの相対パスは設定ファイルの場所から解決する
	if name != "" {
		dir := filepath.Dir(name)
		for i, h := range cfg.Headfiles {
			if !filepath.IsAbs(h) {
				cfg.Headfiles[i] = filepath.Join(dir, h)
			}
		}
	}
	return &cfg, nil
}

// Locate 読み込む設定ファイルのパスを決める
// 優先順位: explicit > $CALC_CONFIG > ~/.calc.yml（存在する場合のみ）
// 見つからなければ空文字を返す
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, DefaultFileName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
