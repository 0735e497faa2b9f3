package dirstat

import (
	"path/filepath"
	"sync"
	"time"
)

// Emitter receives one record per reported node.
type Emitter interface {
	Emit(size int64, path string)
}

// EmitFunc adapts a function to the Emitter interface.
type EmitFunc func(size int64, path string)

// Emit calls f(size, path).
func (f EmitFunc) Emit(size int64, path string) {
	f(size, path)
}

// FileStat represents a single reported path and its size.
type FileStat struct {
	// Path is the file or directory path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
}

// Stats holds the outcome of sizing all arguments.
type Stats struct {
	// Entries are the reported nodes in emission order.
	Entries []FileStat `json:"entries"`
	// Total is the sum of the argument totals.
	Total int64 `json:"total"`
	// ErrorCount is the number of errors encountered.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// Collector is an Emitter that keeps every record in emission order.
type Collector struct {
	mu         sync.Mutex
	entries    []FileStat
	total      int64
	errorCount int64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{entries: make([]FileStat, 0)}
}

// Emit records a reported node.
func (c *Collector) Emit(size int64, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, FileStat{Path: path, Size: size})
}

// AddTotal adds an argument total to the grand total.
func (c *Collector) AddTotal(size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total += size
}

// AddErrors counts the diagnostics contained in err.
func (c *Collector) AddErrors(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount += int64(len(Diagnostics(err)))
}

// Entries returns a copy of the records emitted so far.
func (c *Collector) Entries() []FileStat {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]FileStat, len(c.entries))
	copy(entries, c.entries)

	return entries
}

// Finalize produces the Stats from the collected data, with paths
// converted to slash format for cross-platform consistency.
func (c *Collector) Finalize() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]FileStat, len(c.entries))
	for i, e := range c.entries {
		entries[i] = FileStat{Path: filepath.ToSlash(e.Path), Size: e.Size}
	}

	return &Stats{
		Entries:    entries,
		Total:      c.total,
		ErrorCount: c.errorCount,
	}
}
