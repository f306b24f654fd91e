package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// checkpointInterval is the fixed cadence of the Coordinator's periodic
// state checkpoint task.
const checkpointInterval = 5 * time.Second

// Coordinator is the top-level orchestrator: it composes the Probe,
// Planner, Fetchers and State Store, spawns concurrent fetchers, reports
// progress, and finalizes the output file. Grounded on the reference
// engine's MultiThreadEngine.Download/executeDownload, generalized away
// from its fixed worker-count pool (concurrency limit here equals the
// number of ranges, with no additional throttling) and its Terabox-specific
// resolution step.
type Coordinator struct {
	cfg      Config
	client   *httpClient
	observer ProgressObserver
}

// NewCoordinator builds a Coordinator from an explicit configuration.
// Passing a nil observer installs a no-op default.
func NewCoordinator(cfg Config, observer ProgressObserver) *Coordinator {
	cfg = cfg.withDefaults()
	if observer == nil {
		observer = noopObserver{}
	}
	return &Coordinator{
		cfg:      cfg,
		client:   newHTTPClient(cfg),
		observer: observer,
	}
}

// DownloadOptions parameterizes a single Download call, overriding the
// Coordinator's Config defaults where non-zero.
type DownloadOptions struct {
	// OutputPathOrDir is a full file path, an existing directory, or empty
	// (meaning: use cfg.DownloadPath).
	OutputPathOrDir string
	// Segments overrides cfg.SegmentsAmount when > 0.
	Segments int
	// Resume, when false, forces a fresh download even if matching state
	// exists on disk.
	Resume bool
}

// Download runs the full state machine:
// INIT → PROBING → PLANNING → (RESUMING|FRESH) → DOWNLOADING →
// COMPLETE|PAUSED.
func (c *Coordinator) Download(ctx context.Context, uri string, opts DownloadOptions) (string, error) {
	meta, err := probe(ctx, c.client, uri)
	if err != nil {
		return "", err
	}

	outputPath, err := c.resolveOutputPath(opts.OutputPathOrDir, meta.Filename)
	if err != nil {
		return "", newIOError(err)
	}

	segmentsWanted := opts.Segments
	if segmentsWanted <= 0 {
		segmentsWanted = c.cfg.SegmentsAmount
	}
	if !meta.SupportsRange {
		segmentsWanted = 1
	}

	ranges, err := plan(meta.Size, segmentsWanted)
	if err != nil {
		return "", err
	}

	statePath := stateFilePath(outputPath)
	state := newDownloadState(uri, meta.Size)

	if opts.Resume {
		decision := resolveResume(outputPath, uri, meta.Size)
		if decision.resume {
			state = decision.state
		}
	} else {
		_ = os.Remove(outputPath)
		_ = deleteState(statePath)
	}

	if _, err := os.Stat(outputPath); err != nil {
		if err := preallocate(outputPath, meta.Size); err != nil {
			return "", newIOError(err)
		}
	}

	c.observer.OnStart(len(ranges), len(state.Completed))

	remaining := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if !state.Completed[r.ID] {
			remaining = append(remaining, r)
		}
	}

	if len(remaining) == 0 {
		_ = deleteState(statePath)
		c.observer.OnFinish(outputPath)
		return outputPath, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	results := make(chan fetchResult, len(remaining))
	var wg sync.WaitGroup

	for _, r := range remaining {
		r := r
		resumeOffset := state.Partial[r.ID]
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := fetchSegment(runCtx, c.client, uri, outputPath, r, resumeOffset, c.cfg, func(total int64) {
				mu.Lock()
				state.Partial[r.ID] = total
				mu.Unlock()
			})
			results <- res
		}()
	}

	checkpointDone := make(chan struct{})
	stopCheckpoint := make(chan struct{})
	go c.runCheckpointTask(statePath, state, &mu, stopCheckpoint, checkpointDone)

	go func() {
		wg.Wait()
		close(results)
	}()

	var failures []int
	for res := range results {
		mu.Lock()
		if res.Err == nil {
			state.Completed[res.SegmentID] = true
			delete(state.Partial, res.SegmentID)
			state.Timestamp = time.Now()
			mu.Unlock()
			c.observer.OnSegmentComplete(res.SegmentID)
		} else {
			state.Partial[res.SegmentID] = res.BytesWritten
			mu.Unlock()
			failures = append(failures, res.SegmentID)
		}
	}

	close(stopCheckpoint)
	<-checkpointDone

	mu.Lock()
	finalState := *state
	finalState.Completed = copyBoolSet(state.Completed)
	finalState.Partial = copyIntMap(state.Partial)
	mu.Unlock()
	_ = saveState(statePath, &finalState)

	if len(failures) > 0 {
		c.observer.OnPause(len(failures))
		return "", newIncompleteError(failures)
	}

	if len(state.Completed) == len(ranges) {
		_ = deleteState(statePath)
		c.observer.OnFinish(outputPath)
		return outputPath, nil
	}

	c.observer.OnPause(len(ranges) - len(state.Completed))
	return "", newIncompleteError(incompleteIDs(ranges, state))
}

// runCheckpointTask writes state to statePath every checkpointInterval
// until stop is closed, then signals done without writing again; the final
// checkpoint is written by Download after done is observed. Grounded on the reference implementation's update_state_periodically
// task, expressed as a cancellable goroutine rather than an asyncio task.
func (c *Coordinator) runCheckpointTask(statePath string, state *DownloadState, mu *sync.Mutex, stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(checkpointInterval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-ticker.C:
			mu.Lock()
			snapshot := *state
			snapshot.Completed = copyBoolSet(state.Completed)
			snapshot.Partial = copyIntMap(state.Partial)
			snapshot.Timestamp = time.Now()
			mu.Unlock()
			_ = saveState(statePath, &snapshot)
		case <-stop:
			return
		}
	}
}

// resolveOutputPath resolves a caller-supplied path, directory, or
// nothing at all into a concrete output file path.
func (c *Coordinator) resolveOutputPath(pathOrDir, filename string) (string, error) {
	if pathOrDir == "" {
		dir := c.cfg.DownloadPath
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return "", err
			}
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		return filepath.Join(dir, filename), nil
	}

	if info, err := os.Stat(pathOrDir); err == nil && info.IsDir() {
		return filepath.Join(pathOrDir, filename), nil
	}

	if err := os.MkdirAll(filepath.Dir(pathOrDir), 0755); err != nil {
		return "", err
	}
	return pathOrDir, nil
}

// preallocate creates outputPath at the given length. Truncate is the
// portable mechanism for requesting sparse allocation; correctness never
// depends on the filesystem actually sparsifying the region, only on the
// resulting length.
func preallocate(path string, size int64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("allocate output file: %w", err)
	}
	return nil
}

func incompleteIDs(ranges []Range, state *DownloadState) []int {
	var ids []int
	for _, r := range ranges {
		if !state.Completed[r.ID] {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func copyBoolSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[int]int64) map[int]int64 {
	out := make(map[int]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
