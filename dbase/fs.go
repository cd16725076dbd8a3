package dbase

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileHandle is a random-access file the engine reads and writes at
// explicit offsets. *os.File satisfies it.
type FileHandle interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// FileSystem is the external capability spec §1 names: open, random-access
// read/write, stat-for-size, close. The package never acquires OS file
// locks through it; concurrent writers to one file are undefined behavior.
type FileSystem interface {
	// OpenFile opens path for random-access read/write, creating it when
	// create is true. It must fail if create is true and the file already
	// exists.
	OpenFile(path string, create bool) (FileHandle, error)
	// Size returns the current size in bytes of the open handle.
	Size(h FileHandle) (int64, error)
	// FindSibling resolves a case-insensitive match for path within its
	// directory, used to locate memo files whose extension case may
	// differ from what the header predicts. Returns the original path
	// unchanged, with ok=false, if no case-insensitive match is found.
	FindSibling(path string) (resolved string, ok bool)
}

// osFileSystem is the default FileSystem backed by the local filesystem.
type osFileSystem struct{}

// DefaultFileSystem is the FileSystem used when OpenOptions/CreateOptions
// leaves FileSystem nil.
var DefaultFileSystem FileSystem = osFileSystem{}

func (osFileSystem) OpenFile(path string, create bool) (FileHandle, error) {
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (osFileSystem) Size(h FileHandle) (int64, error) {
	f, ok := h.(*os.File)
	if !ok {
		return statSizeGeneric(h)
	}
	return statSizePlatform(f)
}

func statSizeGeneric(h FileHandle) (int64, error) {
	seeker, ok := h.(interface {
		Seek(offset int64, whence int) (int64, error)
	})
	if !ok {
		return 0, wrap("stat size", ErrClosed)
	}
	n, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (osFileSystem) FindSibling(path string) (string, bool) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return path, false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), base) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return path, false
}
