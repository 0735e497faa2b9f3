package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"emperror.dev/errors"

	"github.com/idelchi/dirstat/internal/dirstat"
)

func logic(ctx context.Context, s settings, stdout, stderr io.Writer) error {
	log := newLogger(s.debug, stderr)

	log.WithField("paths", s.paths).Debug("starting")

	for _, re := range s.config.Excludes {
		log.Debugf("exclude regex: %s", re)
	}

	start := time.Now()

	collector := dirstat.NewCollector()
	printer := &textPrinter{writer: stdout, format: s.format}

	var sink dirstat.Emitter = printer
	if s.output == "json" {
		sink = collector
	}

	var records int

	emit := dirstat.EmitFunc(func(size int64, path string) {
		records++

		sink.Emit(size, path)
	})

	reporter := dirstat.NewReporter(s.config, emit, dirstat.WithLogger(log))

	var failed error

	for _, path := range s.paths {
		// Hard links are deduplicated within one argument, not across arguments.
		seen := dirstat.NewSeenSet()

		var (
			size int64
			err  error
		)

		if s.parallel {
			size, err = reporter.ReportParallel(ctx, path, seen)
		} else {
			size, err = reporter.Report(path, seen)
		}

		collector.AddTotal(size)
		collector.AddErrors(err)
		failed = errors.Append(failed, err)

		log.WithField("path", path).Debugf("%d inodes seen", seen.Len())
	}

	stats := collector.Finalize()
	stats.Elapsed = time.Since(start)

	log.WithField("elapsed", stats.Elapsed).Debugf("%d records", records)

	switch s.output {
	case "json":
		if err := PrintJSON(stats, stdout); err != nil {
			return err
		}
	default:
		if s.total {
			printer.Emit(stats.Total, "total")
		}

		if printer.err != nil {
			return fmt.Errorf("writing output: %w", printer.err)
		}
	}

	if failed != nil {
		return fmt.Errorf("%w: %d error(s)", dirstat.ErrPartial, len(dirstat.Diagnostics(failed)))
	}

	return nil
}
