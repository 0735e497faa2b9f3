package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirstat/internal/dirstat"
)

// sizeFormat renders byte counts for display.
type sizeFormat struct {
	// blockSize is the unit sizes are divided by, rounding up.
	blockSize int64
	// human selects humanize.IBytes output and ignores blockSize.
	human bool
}

// Format renders size in the configured unit.
func (f sizeFormat) Format(size int64) string {
	if f.human {
		return humanize.IBytes(uint64(size)) //nolint:gosec // Sizes are never negative
	}

	if f.blockSize <= 1 {
		return strconv.FormatInt(size, 10)
	}

	return strconv.FormatInt((size+f.blockSize-1)/f.blockSize, 10)
}

// parseBlockSize parses a block size such as "512", "4KiB" or "1MB".
func parseBlockSize(s string) (int64, error) {
	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}

	if size == 0 {
		return 0, errors.New("block size must be positive")
	}

	return int64(size), nil //nolint:gosec // Size conversion from humanize is safe
}

// textPrinter writes one "<size>\t<path>" line per record.
// The first write error is kept and later records are dropped.
type textPrinter struct {
	writer io.Writer
	format sizeFormat
	err    error
}

// Emit implements dirstat.Emitter.
func (p *textPrinter) Emit(size int64, path string) {
	if p.err != nil {
		return
	}

	_, p.err = fmt.Fprintf(p.writer, "%s\t%s\n", p.format.Format(size), path)
}

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *dirstat.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}
