package build

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the file access the builder needs.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Rename(oldpath, newpath string) error
}

// OSFileSystem is the host file system.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error)        { return os.Stat(name) }
func (OSFileSystem) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error)   { return os.ReadDir(name) }
func (OSFileSystem) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }

// saveFile writes data to path. When the first write fails the parent
// directory is created and the write retried once.
func saveFile(fsys FileSystem, path string, data []byte) error {
	err := fsys.WriteFile(path, data, 0o644)
	if err == nil {
		return nil
	}
	if mkErr := fsys.MkdirAll(filepath.Dir(path), 0o755); mkErr == nil {
		err = fsys.WriteFile(path, data, 0o644)
	}
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
