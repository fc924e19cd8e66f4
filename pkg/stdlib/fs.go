package stdlib

import (
	"fmt"
	"strings"

	"github.com/zurustar/calc/pkg/fileutil"
	"github.com/zurustar/calc/pkg/logger"
	"github.com/zurustar/calc/pkg/value"
)

// fileClass describes the objects returned by FS.open and FS.create.
// The properties are a snapshot taken when the object was created.
var fileClass = value.NewClass("File", []value.Param{
	param("path", value.TypeString),
	param("exist", value.TypeBoolean),
	param("is_dir", value.TypeBoolean),
	param("is_file", value.TypeBoolean),
}, methods(
	builtin("read", fileRead, param("self", value.TypeObject)),
	builtin("write", fileWrite(false), param("self", value.TypeObject), param("content", value.TypeString)),
	builtin("append", fileWrite(true), param("self", value.TypeObject), param("content", value.TypeString)),
))

// fsObject builds the FS module. Its functions are methods, so they are
// called as FS.open(path) with FS bound as the receiver.
func fsObject() *value.Object {
	self := param("self", value.TypeObject)
	path := param("path", value.TypeString)
	class := value.NewClass("FS", nil, methods(
		builtin("open", fsOpen, self, path),
		builtin("create", fsCreate, self, path),
		builtin("delete", fsDelete, self, path),
	))
	obj, _ := value.NewObject(class, nil)
	return obj
}

// resolve turns a script path into a path of the host's file system.
// A missing file is looked up again ignoring case.
func resolve(host value.Host, path string) string {
	p := host.ResolvePath(path)
	if actual, err := host.FileSystem().Resolve(p); err == nil {
		return actual
	}
	return p
}

// writable returns the host's file system when it accepts writes.
func writable(host value.Host, op string) (fileutil.WritableFS, error) {
	w, ok := host.FileSystem().(fileutil.WritableFS)
	if !ok {
		return nil, fmt.Errorf("%s: file system is read-only", op)
	}
	return w, nil
}

// newFile creates a File object describing path.
func newFile(fsys fileutil.FileSystem, path string) (value.Value, error) {
	exist, isDir, isFile := false, false, false
	if info, err := fsys.Stat(path); err == nil {
		exist = true
		isDir = info.IsDir()
		isFile = info.Mode().IsRegular()
	}
	return value.NewObject(fileClass, []value.Value{
		value.NewString(path),
		value.Boolean(exist),
		value.Boolean(isDir),
		value.Boolean(isFile),
	})
}

func fsOpen(host value.Host, args []value.Value) (value.Value, error) {
	path := resolve(host, args[1].String())
	logger.GetLogger().Debug("FS.open called", "path", path)
	return newFile(host.FileSystem(), path)
}

// fsCreate creates a directory when path ends with a slash and an empty
// file otherwise. An existing file is truncated.
func fsCreate(host value.Host, args []value.Value) (value.Value, error) {
	fsys, err := writable(host, "FS.create")
	if err != nil {
		return nil, err
	}
	raw := args[1].String()
	path := host.ResolvePath(raw)
	if strings.HasSuffix(raw, "/") {
		err = fsys.MkdirAll(path)
	} else {
		err = fsys.Create(path)
	}
	if err != nil {
		return nil, fmt.Errorf("FS.create: %w", err)
	}
	logger.GetLogger().Debug("FS.create called", "path", path)
	return newFile(fsys, path)
}

// fsDelete removes a file or a directory tree.
func fsDelete(host value.Host, args []value.Value) (value.Value, error) {
	fsys, err := writable(host, "FS.delete")
	if err != nil {
		return nil, err
	}
	path := resolve(host, args[1].String())
	if err := fsys.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("FS.delete: %w", err)
	}
	logger.GetLogger().Debug("FS.delete called", "path", path)
	return value.Empty, nil
}

// filePath reads the path of a File object and checks it is a regular file.
func filePath(fsys fileutil.FileSystem, obj value.Value, op string) (string, error) {
	o, ok := obj.(*value.Object)
	if !ok {
		return "", fmt.Errorf("%s: receiver is not a File", op)
	}
	p, err := o.Get("path")
	if err != nil {
		return "", err
	}
	path := p.String()
	info, err := fsys.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %s is a directory", op, path)
	}
	return path, nil
}

func fileRead(host value.Host, args []value.Value) (value.Value, error) {
	fsys := host.FileSystem()
	path, err := filePath(fsys, args[0], "read")
	if err != nil {
		return nil, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return value.NewString(string(data)), nil
}

// fileWrite replaces the file content, or appends to it.
func fileWrite(appendMode bool) value.BuiltinImpl {
	op := "write"
	if appendMode {
		op = "append"
	}
	return func(host value.Host, args []value.Value) (value.Value, error) {
		fsys, err := writable(host, op)
		if err != nil {
			return nil, err
		}
		path, err := filePath(fsys, args[0], op)
		if err != nil {
			return nil, err
		}
		if err := fsys.WriteFile(path, []byte(args[1].String()), appendMode); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.GetLogger().Debug("file written", "path", path, "mode", op)
		return value.Empty, nil
	}
}
