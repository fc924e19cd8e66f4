// Package fileutil resolves and reads script files on the real file system
// or on an fs.FS.
package fileutil

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem は実ファイルシステムとfs.FSを統一的に扱うインターフェース
type FileSystem interface {
	// Resolve はベースパスからの相対パスを実際のパスに解決する（大文字小文字を無視）
	Resolve(name string) (string, error)
	// ReadFile は Resolve 済みのパスの内容を読み込む
	ReadFile(name string) ([]byte, error)
	// Stat はファイル情報を返す
	Stat(name string) (fs.FileInfo, error)
	// BasePath はベースパスを返す
	BasePath() string
}

// WritableFS は書き込みもできるFileSystem
// 書き込めないFileSystem（MapFS）ではFSモジュールの書き込み操作がエラーになる
type WritableFS interface {
	FileSystem
	// WriteFile は既存のファイルを置き換えるか、末尾に追記する
	WriteFile(name string, data []byte, appendMode bool) error
	// Create は空のファイルを作る（既存なら切り詰める）
	Create(name string) error
	MkdirAll(name string) error
	RemoveAll(name string) error
}

// RealFS は実ファイルシステムへのアクセスを提供する
type RealFS struct {
	basePath string
}

// NewRealFS は実ファイルシステム用のFileSystemを作成する
func NewRealFS(basePath string) *RealFS {
	return &RealFS{basePath: basePath}
}

func (r *RealFS) Resolve(name string) (string, error) {
	p := ResolvePath(r.basePath, name)
	// まず直接アクセスを試みる
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return FindFileCaseInsensitive(filepath.Dir(p), filepath.Base(p))
}

func (r *RealFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (r *RealFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (r *RealFS) BasePath() string {
	return r.basePath
}

func (r *RealFS) WriteFile(name string, data []byte, appendMode bool) error {
	flag := os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flag = os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(name, flag, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *RealFS) Create(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	return f.Close()
}

func (r *RealFS) MkdirAll(name string) error {
	return os.MkdirAll(name, 0755)
}

func (r *RealFS) RemoveAll(name string) error {
	return os.RemoveAll(name)
}

// MapFS はfs.FS（embed.FSやfstest.MapFS）へのアクセスを提供する
type MapFS struct {
	fsys     fs.FS
	basePath string
}

// NewMapFS はfs.FS用のFileSystemを作成する
func NewMapFS(fsys fs.FS, basePath string) *MapFS {
	return &MapFS{fsys: fsys, basePath: basePath}
}

func (m *MapFS) Resolve(name string) (string, error) {
	// fs.FSでは "/" を使用し、先頭の "/" は付けない
	clean := strings.TrimPrefix(filepath.ToSlash(name), "/")
	p := path.Clean(path.Join(m.basePath, clean))
	if f, err := m.fsys.Open(p); err == nil {
		f.Close()
		return p, nil
	}
	return FindFileCaseInsensitiveFS(m.fsys, path.Dir(p), path.Base(p))
}

func (m *MapFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.fsys, name)
}

// Stat はResolve済みのパスも、先頭に "/" の付いたパスも受け付ける
func (m *MapFS) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(m.fsys, path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/")))
}

func (m *MapFS) BasePath() string {
	return m.basePath
}

// ResolvePath は相対パスをベースパスに連結する。絶対パスはそのまま返す
func ResolvePath(basePath, name string) string {
	if filepath.IsAbs(name) || basePath == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(basePath, name)
}
