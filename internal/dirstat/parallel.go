package dirstat

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"

	"emperror.dev/errors"
	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

// ErrParallelDereference is returned by ReportParallel when the configuration
// asks for symlinks to be followed during the walk.
const ErrParallelDereference = errors.Sentinel("parallel summary cannot follow symlinks")

// ReportParallel computes the same root total as Report using a parallel
// walk, and emits only the root record. Per-entry output and
// Config.Dereference are not supported.
//
// The walk can be cancelled via ctx.
//
//nolint:gocognit,cyclop // Single walk callback
func (r *Reporter) ReportParallel(ctx context.Context, path string, seen *SeenSet) (int64, error) {
	if r.cfg.Dereference {
		return 0, ErrParallelDereference
	}

	root, err := r.statRoot(path)
	if err != nil {
		return 0, err
	}

	if root.Kind != KindDir {
		return r.reportLeaf(path, root), nil
	}

	if err := r.readable(path); err != nil {
		r.log.Error(err)

		return 0, err
	}

	if root.HasID {
		seen.Add(root.ID)
	}

	var (
		total    atomic.Int64
		mu       sync.Mutex // Protect diag and rootErr
		diag     error
		rootErr  error
		rootPath = filepath.Clean(path)
	)

	fail := func(err error) {
		r.log.Error(err)

		mu.Lock()
		diag = errors.Append(diag, err)
		mu.Unlock()
	}

	conf := &fastwalk.Config{
		Follow: false,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, path, func(p string, d fs.DirEntry, err error) error {
		// fastwalk hands the root over by its cleaned path, which under -H is
		// the link rather than the directory identified by root.
		isRoot := filepath.Clean(p) == rootPath

		if err != nil {
			if isRoot && openFailed(err) {
				mu.Lock()
				rootErr = &OpenDirError{Path: path, Err: err}
				mu.Unlock()

				return nil
			}

			// A directory that could not be opened contributes nothing.
			if d != nil && d.IsDir() && openFailed(err) {
				r.uncount(p, &total)
				err = &OpenDirError{Path: p, Err: err}
			}

			fail(err)

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if isRoot {
			return nil
		}

		if re := r.cfg.excluded(p); re != nil {
			r.log.WithField("path", p).Debugf("excluding: matched regex %s", re)

			return skip(d)
		}

		status, err := r.fsys.Lstat(p)
		if err != nil {
			fail(err)

			return nil
		}

		if status.HasID && !seen.Visit(status.ID) {
			r.log.WithFields(logrus.Fields{
				"path": p,
				"kind": status.Kind.String(),
			}).Debug("skipping: already counted")

			return skip(d)
		}

		if status.Kind == KindDir {
			if err := r.readable(p); err != nil {
				fail(err)

				return filepath.SkipDir
			}
		}

		total.Add(SizeOf(status, r.cfg))

		return nil
	})
	if walkErr != nil {
		return 0, fmt.Errorf("walking %q: %w", path, walkErr)
	}

	if rootErr != nil {
		fail(rootErr)

		return 0, diag
	}

	size := SizeOf(root, r.cfg) + total.Load()
	r.emit.Emit(size, path)

	return size, diag
}

// readable checks that the directory at path can be opened through the
// configured FileSystem.
func (r *Reporter) readable(path string) error {
	dir, err := r.fsys.OpenDir(path)
	if err != nil {
		return &OpenDirError{Path: path, Err: err}
	}

	return dir.Close()
}

// uncount takes back the size of a directory that was counted before
// fastwalk failed to open it.
func (r *Reporter) uncount(path string, total *atomic.Int64) {
	status, err := r.fsys.Lstat(path)
	if err != nil {
		return
	}

	total.Add(-SizeOf(status, r.cfg))
}

// openFailed reports whether err comes from opening a directory, as opposed to
// failing part way through reading it.
func openFailed(err error) bool {
	var pathErr *fs.PathError

	return errors.As(err, &pathErr) && pathErr.Op == "open"
}

func skip(d fs.DirEntry) error {
	if d != nil && d.IsDir() {
		return filepath.SkipDir
	}

	return nil
}
