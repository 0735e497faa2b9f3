package dirstat

import (
	"os"
	"sort"
)

// Kind classifies a filesystem entry.
type Kind uint8

const (
	// KindOther covers devices, pipes, sockets and anything unrecognized.
	KindOther Kind = iota
	// KindRegular is a regular file.
	KindRegular
	// KindDir is a directory.
	KindDir
	// KindSymlink is a symbolic link.
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// FileID identifies a file by device and inode number.
type FileID struct {
	Dev uint64
	Ino uint64
}

// FileStatus is the metadata the walker needs for a single path.
type FileStatus struct {
	// ID is the device and inode of the file.
	ID FileID
	// HasID is false on platforms that do not expose device and inode numbers.
	// Such entries are never deduplicated.
	HasID bool
	// Kind is the type of the entry.
	Kind Kind
	// Size is the apparent size in bytes.
	Size int64
	// Blocks is the number of BlockUnit sized blocks allocated to the file.
	Blocks int64
}

// FileSystem is the set of queries issued while sizing a tree.
type FileSystem interface {
	// Lstat returns the status of path without following a final symlink.
	Lstat(path string) (FileStatus, error)
	// Stat returns the status of path, following symlinks.
	Stat(path string) (FileStatus, error)
	// OpenDir opens path for reading its entries.
	OpenDir(path string) (DirReader, error)
}

// DirReader is an open directory handle.
type DirReader interface {
	// ReadNames returns the entry names of the directory in traversal order.
	// On error it also returns the names read before the failure.
	ReadNames() ([]string, error)
	Close() error
}

// OS is the FileSystem backed by the host operating system.
//
//nolint:gochecknoglobals // Stateless default implementation
var OS FileSystem = osFS{}

type osFS struct{}

func (osFS) OpenDir(path string) (DirReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return osDir{file: f}, nil
}

type osDir struct {
	file *os.File
}

// ReadNames reads all entries and sorts them, so that output order does not
// depend on the on-disk directory layout.
func (d osDir) ReadNames() ([]string, error) {
	names, err := d.file.Readdirnames(-1)

	sort.Strings(names)

	return names, err
}

func (d osDir) Close() error {
	return d.file.Close()
}
