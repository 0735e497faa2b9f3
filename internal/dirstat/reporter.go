package dirstat

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Reporter sizes root arguments and emits their totals.
type Reporter struct {
	cfg  Config
	fsys FileSystem
	emit Emitter
	log  logrus.FieldLogger
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithFileSystem replaces the host filesystem.
func WithFileSystem(fsys FileSystem) Option {
	return func(r *Reporter) {
		r.fsys = fsys
	}
}

// WithLogger sets the logger receiving diagnostics and debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reporter) {
		r.log = log
	}
}

// NewReporter creates a Reporter emitting records to emit.
func NewReporter(cfg Config, emit Emitter, opts ...Option) *Reporter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Reporter{
		cfg:  cfg,
		fsys: OS,
		emit: emit,
		log:  discard,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report sizes path and returns its total.
//
// A directory is walked and reported with its own size plus everything below
// it. Any other file is sized and reported directly, without being opened.
// A root that cannot be accessed produces no record and a zero total.
//
// The returned error combines every diagnostic of the walk; the total is
// still meaningful when it is non-nil.
func (r *Reporter) Report(path string, seen *SeenSet) (int64, error) {
	root, err := r.statRoot(path)
	if err != nil {
		return 0, err
	}

	if root.Kind != KindDir {
		return r.reportLeaf(path, root), nil
	}

	// A symlink back to the root must be recognized as already seen.
	if root.HasID {
		seen.Add(root.ID)
	}

	w := r.newWalker(seen)

	sub, err := w.Walk(path, 0)
	if err != nil {
		w.fail(err)

		return 0, w.Err()
	}

	total := SizeOf(root, r.cfg) + sub
	r.emit.Emit(total, path)

	return total, w.Err()
}

func (r *Reporter) newWalker(seen *SeenSet) *Walker {
	return &Walker{
		cfg:  r.cfg,
		fsys: r.fsys,
		seen: seen,
		emit: r.emit,
		log:  r.log,
	}
}

// statRoot stats a root argument, following a symlink when either
// dereference mode is set.
func (r *Reporter) statRoot(path string) (FileStatus, error) {
	stat := r.fsys.Lstat
	if r.cfg.Dereference || r.cfg.DereferenceArgs {
		stat = r.fsys.Stat
	}

	status, err := stat(path)
	if err != nil {
		r.log.Error(err)

		return FileStatus{}, err
	}

	return status, nil
}

func (r *Reporter) reportLeaf(path string, status FileStatus) int64 {
	size := SizeOf(status, r.cfg)
	r.emit.Emit(size, path)

	return size
}
