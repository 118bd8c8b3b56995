package build

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// readOnlyFS fails every write.
type readOnlyFS struct {
	OSFileSystem
	writes int
}

var errReadOnly = errors.New("read-only file system")

func (r *readOnlyFS) WriteFile(string, []byte, fs.FileMode) error {
	r.writes++
	return errReadOnly
}

func TestSaveFileCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.bin")
	if err := saveFile(OSFileSystem{}, path, []byte("blob")); err != nil {
		t.Fatalf("saveFile() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "blob" {
		t.Errorf("ReadFile() = %q, %v", got, err)
	}
}

func TestSaveFileWriteError(t *testing.T) {
	fsys := &readOnlyFS{}
	path := filepath.Join(t.TempDir(), "out.bin")
	err := saveFile(fsys, path, []byte("blob"))

	var we *WriteError
	if !errors.As(err, &we) || we.Path != path {
		t.Fatalf("saveFile() error = %v, want *WriteError for %q", err, path)
	}
	if !errors.Is(err, errReadOnly) {
		t.Errorf("error does not wrap the cause: %v", err)
	}
	if fsys.writes != 2 {
		t.Errorf("writes = %d, want one retry", fsys.writes)
	}
}
