package script

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zurustar/calc/pkg/fileutil"
)

// DefaultEncoding はエンコーディング未指定時に使う名前
const DefaultEncoding = "utf-8"

// Script は読み込み済みのスクリプトファイルを表す
type Script struct {
	Path     string // 解決済みのパス
	FileName string // ファイル名
	Content  string // UTF-8に変換された内容
	Units    []Unit // 実行単位
}

// Name は拡張子を除いたファイル名を返す（import時の束縛名）
func (s *Script) Name() string {
	return strings.TrimSuffix(s.FileName, filepath.Ext(s.FileName))
}

// Loader はスクリプトファイルの読み込みを行う
type Loader struct {
	fs       fileutil.FileSystem
	encoding string
}

// NewLoader Loaderを作成
func NewLoader(fs fileutil.FileSystem, encoding string) *Loader {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Loader{fs: fs, encoding: encoding}
}

// FileSystem は読み込みに使うFileSystemを返す
func (l *Loader) FileSystem() fileutil.FileSystem {
	return l.fs
}

// Encoding は使用するエンコーディング名を返す
func (l *Loader) Encoding() string {
	return l.encoding
}

// Load ファイルを読み込み、デコードして実行単位に分割する
func (l *Loader) Load(path string) (*Script, error) {
	actual, err := l.fs.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("failed to find script %s: %w", path, err)
	}

	data, err := l.fs.ReadFile(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}

	content, err := Decode(data, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode script %s: %w", path, err)
	}

	return &Script{
		Path:     actual,
		FileName: filepath.Base(actual),
		Content:  content,
		Units:    Split(content),
	}, nil
}

// Decode 指定エンコーディングのバイト列をUTF-8文字列に変換する
// BOMがあればそちらを優先する
func Decode(data []byte, name string) (string, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	reader := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", name, err)
	}

	// CRLFはLFとして扱う
	return strings.ReplaceAll(string(decoded), "\r\n", "\n"), nil
}

// lookupEncoding エンコーディング名を解決する
// Shift-JISの別名はhtmlindexより先に見る
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "sjis", "shift-jis", "shift_jis", "cp932":
		return japanese.ShiftJIS, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding: %s", name)
	}
	return enc, nil
}
