// Package progress provides the default terminal-rendered implementation
// of downloader.ProgressObserver. The core engine has no dependency on
// this package or on cheggaaa/pb/v3; an outer layer (cmd/) wires it in.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
)

// BarObserver renders download progress on a pb/v3 progress bar. Grounded
// on the reference implementation's ProgressTracker, generalized to the
// segment-count/segment-complete event shape of downloader.ProgressObserver
// rather than a raw byte counter.
type BarObserver struct {
	bar       *pb.ProgressBar
	quiet     bool
	mu        sync.Mutex
	total     int
	completed int
	startTime time.Time
}

// NewBarObserver constructs an observer. When quiet is true no bar is
// rendered and the finish/pause summary lines are suppressed too.
func NewBarObserver(quiet bool) *BarObserver {
	return &BarObserver{quiet: quiet}
}

func (o *BarObserver) OnStart(totalSegments, alreadyCompleted int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.total = totalSegments
	o.completed = alreadyCompleted
	o.startTime = time.Now()

	if o.quiet {
		return
	}

	tmpl := `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{rtime . "ETA %s"}}`
	o.bar = pb.ProgressBarTemplate(tmpl).Start(totalSegments)
	o.bar.Set("prefix", "Downloading: ")
	o.bar.SetCurrent(int64(alreadyCompleted))
}

func (o *BarObserver) OnSegmentComplete(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.completed++
	if o.bar != nil {
		o.bar.Increment()
	}
}

func (o *BarObserver) OnFinish(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.bar != nil {
		o.bar.Finish()
	}
	if !o.quiet {
		fmt.Printf("Download complete: %s (%v)\n", path, time.Since(o.startTime).Round(time.Millisecond))
	}
}

func (o *BarObserver) OnPause(remainingCount int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.bar != nil {
		o.bar.Finish()
	}
	if !o.quiet {
		fmt.Printf("Download paused: %d segment(s) remaining, resume later\n", remainingCount)
	}
}
