package dirstat

import (
	"errors"
	"io/fs"
	"testing"

	multierr "emperror.dev/errors"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	collector := NewCollector()

	var emit Emitter = collector

	emit.Emit(20, "root/sub")
	emit.Emit(30, "root")
	collector.AddTotal(30)
	collector.AddTotal(5)
	collector.AddErrors(nil)
	collector.AddErrors(multierr.Append(fs.ErrPermission, errors.New("boom")))

	stats := collector.Finalize()

	assert.Equal(t, []FileStat{{Path: "root/sub", Size: 20}, {Path: "root", Size: 30}}, stats.Entries)
	assert.EqualValues(t, 35, stats.Total)
	assert.EqualValues(t, 2, stats.ErrorCount)
}

func TestEmitFunc(t *testing.T) {
	t.Parallel()

	var got []FileStat

	emit := EmitFunc(func(size int64, path string) {
		got = append(got, FileStat{Path: path, Size: size})
	})

	emit.Emit(1, "a")

	assert.Equal(t, []FileStat{{Path: "a", Size: 1}}, got)
}
