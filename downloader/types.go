package downloader

import "time"

// FileMetadata describes a remote resource as reported by the Probe.
type FileMetadata struct {
	Size          int64
	Filename      string
	ContentType   string
	SupportsRange bool
}

// Range is a contiguous, closed byte window of the remote
// resource assigned to exactly one Fetcher. Start and EndInclusive are both
// inclusive bounds, matching the HTTP Range header convention.
type Range struct {
	ID            int
	Start         int64
	EndInclusive  int64
}

// Length returns the number of bytes covered by the range.
func (r Range) Length() int64 {
	return r.EndInclusive - r.Start + 1
}

// SegmentProgress records how many bytes of a Range have been confirmed
// written to the output file.
type SegmentProgress struct {
	ID           int
	BytesWritten int64
}

// DownloadState is the resumable, persisted view of an in-progress
// download. The Coordinator is its sole mutator; it is serialized to the
// sidecar state file by the State Store on every checkpoint.
type DownloadState struct {
	URI       string         `yaml:"uri"`
	TotalSize int64          `yaml:"total_size"`
	Completed map[int]bool   `yaml:"completed"`
	Partial   map[int]int64  `yaml:"partial"`
	Timestamp time.Time      `yaml:"timestamp"`
}

// newDownloadState returns an empty state ready for a fresh download.
func newDownloadState(uri string, totalSize int64) *DownloadState {
	return &DownloadState{
		URI:       uri,
		TotalSize: totalSize,
		Completed: make(map[int]bool),
		Partial:   make(map[int]int64),
		Timestamp: time.Now(),
	}
}

// Credential is an opaque set of extra request headers the caller supplies
// (Authorization, Cookie, and similar). The engine injects them verbatim
// into every Probe and Fetcher request; it never inspects, validates, or
// acquires them.
type Credential map[string]string
