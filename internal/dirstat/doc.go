// Package dirstat estimates the disk space consumed by file trees.
//
// A Reporter sizes one root argument at a time. Directories are walked depth
// first by a Walker, which classifies every entry, deduplicates hard links
// and revisited directories by device and inode, and emits one record per
// reported node in post-order (children before the directory holding them).
//
// Sizes are either apparent byte counts or allocated storage, see SizeOf.
// Descent and accounting always reach the bottom of a tree; Config.MaxDepth
// only bounds which nodes are reported.
package dirstat
