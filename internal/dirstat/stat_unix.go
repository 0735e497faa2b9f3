//go:build unix

package dirstat

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

func (osFS) Lstat(path string) (FileStatus, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return FileStatus{}, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}

	return fromStat(&st), nil
}

func (osFS) Stat(path string) (FileStatus, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileStatus{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}

	return fromStat(&st), nil
}

func fromStat(st *unix.Stat_t) FileStatus {
	return FileStatus{
		ID: FileID{
			Dev: uint64(st.Dev), //nolint:gosec,unconvert // Width differs per platform
			Ino: uint64(st.Ino), //nolint:unconvert // Width differs per platform
		},
		HasID:  true,
		Kind:   kindOf(uint32(st.Mode)), //nolint:unconvert // uint16 on darwin
		Size:   st.Size,
		Blocks: int64(st.Blocks), //nolint:unconvert // Width differs per platform
	}
}

func kindOf(mode uint32) Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return KindRegular
	case unix.S_IFDIR:
		return KindDir
	case unix.S_IFLNK:
		return KindSymlink
	default:
		return KindOther
	}
}
