package downloader

// ProgressObserver consumes segment-completion events from the
// Coordinator. Implementations are external to the core engine — a
// default terminal renderer lives in package progress, grounded on
// cheggaaa/pb/v3, but the Coordinator itself depends on nothing but this
// interface.
type ProgressObserver interface {
	OnStart(totalSegments, alreadyCompleted int)
	OnSegmentComplete(id int)
	OnFinish(path string)
	OnPause(remainingCount int)
}

// noopObserver discards every event. It is the Coordinator's default when
// the caller supplies no observer, grounded on mgomes-dl's
// noopProgressReporter pattern for making an outbound interface genuinely
// optional.
type noopObserver struct{}

func (noopObserver) OnStart(int, int)       {}
func (noopObserver) OnSegmentComplete(int)  {}
func (noopObserver) OnFinish(string)        {}
func (noopObserver) OnPause(int)            {}
