package dirstat

import (
	"os"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"
)

// Walker performs the depth-first traversal below one root argument.
// It is not safe for concurrent use.
type Walker struct {
	cfg  Config
	fsys FileSystem
	seen *SeenSet
	emit Emitter
	log  logrus.FieldLogger

	// diag accumulates the errors recovered from during the walk.
	diag error
}

// Walk returns the accumulated size of everything below path, which sits at
// depth below the root. The size of path itself is not included.
//
// A directory that cannot be read yields an *OpenDirError and contributes
// nothing. When reading fails part way, the entries read so far are still
// accounted for and the failure is collected in Err along with the errors on
// individual entries.
func (w *Walker) Walk(path string, depth int) (int64, error) {
	dir, err := w.fsys.OpenDir(path)
	if err != nil {
		return 0, &OpenDirError{Path: path, Err: err}
	}
	defer dir.Close()

	names, readErr := dir.ReadNames()
	if readErr != nil && len(names) == 0 {
		return 0, &OpenDirError{Path: path, Err: readErr}
	}

	var total int64

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}

		if size, ok := w.visit(joinPath(path, name), depth+1); ok {
			total += size
		}
	}

	if readErr != nil {
		w.fail(&OpenDirError{Path: path, Err: readErr})
	}

	return total, nil
}

// Err returns the diagnostics collected so far, or nil.
func (w *Walker) Err() error {
	return w.diag
}

// visit accounts for one entry and reports whether it contributes to the
// parent's total.
func (w *Walker) visit(path string, depth int) (int64, bool) {
	if re := w.cfg.excluded(path); re != nil {
		w.log.WithField("path", path).Debugf("excluding: matched regex %s", re)

		return 0, false
	}

	status, err := w.fsys.Lstat(path)
	if err != nil {
		w.fail(err)

		return 0, false
	}

	if !w.firstVisit(path, status) {
		return 0, false
	}

	if status.Kind == KindSymlink && w.cfg.Dereference {
		target, err := w.fsys.Stat(path)
		if err != nil {
			w.fail(err)

			return 0, false
		}

		// Distinct links may resolve to the same file, or to an ancestor.
		if !w.firstVisit(path, target) {
			return 0, false
		}

		status = target
	}

	if status.Kind == KindDir {
		return w.dir(path, status, depth)
	}

	return w.leaf(path, status, depth), true
}

func (w *Walker) dir(path string, status FileStatus, depth int) (int64, bool) {
	sub, err := w.Walk(path, depth)
	if err != nil {
		w.fail(err)

		return 0, false
	}

	size := SizeOf(status, w.cfg) + sub

	if w.cfg.reportable(depth) {
		w.emit.Emit(size, path)
	}

	return size, true
}

func (w *Walker) leaf(path string, status FileStatus, depth int) int64 {
	size := SizeOf(status, w.cfg)

	if w.cfg.AllEntries && w.cfg.reportable(depth) {
		w.emit.Emit(size, path)
	}

	return size
}

// firstVisit marks the file as seen and reports whether it was new.
func (w *Walker) firstVisit(path string, status FileStatus) bool {
	if !status.HasID || w.seen.Visit(status.ID) {
		return true
	}

	w.log.WithFields(logrus.Fields{
		"path": path,
		"kind": status.Kind.String(),
	}).Debug("skipping: already counted")

	return false
}

func (w *Walker) fail(err error) {
	w.log.Error(err)
	w.diag = errors.Append(w.diag, err)
}

// joinPath joins dir and name with exactly one separator, keeping dir as
// given so that reported paths start with the argument verbatim.
func joinPath(dir, name string) string {
	if dir != "" && os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}

	return dir + string(os.PathSeparator) + name
}
