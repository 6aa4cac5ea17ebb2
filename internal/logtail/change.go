package logtail

import "os"

// ChangeReason classifies how a log file differs from the last observation.
type ChangeReason int

const (
	ChangeNone ChangeReason = iota
	ChangeTruncated
	ChangeReplaced
	ChangeDeleted
)

// String returns a lowercase label suitable for logs and status bars.
func (r ChangeReason) String() string {
	switch r {
	case ChangeTruncated:
		return "truncated"
	case ChangeReplaced:
		return "replaced"
	case ChangeDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Meta is what a reader remembers about a log file between reads.
type Meta struct {
	Size     int64
	Offset   int64
	Identity os.FileInfo // nil until the file has been seen once
}

// Detect compares the current file info against prev. cur is nil when the file
// no longer exists; that is a deletion only if the file was seen before.
//
// Replacement is decided by file identity (os.SameFile) and wins over
// truncation, since a new file may happen to be shorter than the read offset.
func Detect(prev Meta, cur os.FileInfo) ChangeReason {
	if cur == nil {
		if prev.Size > 0 || prev.Identity != nil {
			return ChangeDeleted
		}
		return ChangeNone
	}
	if prev.Identity != nil && !os.SameFile(prev.Identity, cur) {
		return ChangeReplaced
	}
	if cur.Size() < prev.Offset {
		return ChangeTruncated
	}
	return ChangeNone
}
