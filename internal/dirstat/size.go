package dirstat

// BlockUnit is the size in bytes of the units FileStatus.Blocks counts.
const BlockUnit = 512

// SizeOf returns the space accounted to a single entry.
//
// With cfg.ApparentSize it is the byte size of the entry, where directories
// count as zero so that a directory equals the sum of its contents. Otherwise
// it is the allocated storage in bytes, directories included.
func SizeOf(status FileStatus, cfg Config) int64 {
	if cfg.ApparentSize {
		if status.Kind == KindDir {
			return 0
		}

		return status.Size
	}

	return status.Blocks * BlockUnit
}
