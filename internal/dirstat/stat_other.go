//go:build !unix

package dirstat

import (
	"io/fs"
	"os"
)

func (osFS) Lstat(path string) (FileStatus, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return FileStatus{}, err
	}

	return fromFileInfo(info), nil
}

func (osFS) Stat(path string) (FileStatus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStatus{}, err
	}

	return fromFileInfo(info), nil
}

// fromFileInfo has no inode to offer, so allocation is estimated by rounding
// the apparent size up to whole blocks.
func fromFileInfo(info fs.FileInfo) FileStatus {
	status := FileStatus{
		Size:   info.Size(),
		Blocks: (info.Size() + BlockUnit - 1) / BlockUnit,
	}

	mode := info.Mode()

	switch {
	case mode.IsRegular():
		status.Kind = KindRegular
	case mode.IsDir():
		status.Kind = KindDir
	case mode&fs.ModeSymlink != 0:
		status.Kind = KindSymlink
	default:
		status.Kind = KindOther
	}

	return status
}
