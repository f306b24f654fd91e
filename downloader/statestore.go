package downloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// stateExt is the suffix appended to the output path to derive the sidecar
// state file's path.
const stateExt = ".state"

// stateFilePath derives the sidecar state file path for a given output
// file path.
func stateFilePath(outputPath string) string {
	return outputPath + stateExt
}

// saveState atomically writes state to path. It writes to a temp file in
// the same directory and renames over the target so a checkpoint can never
// observe a half-written state file.
func saveState(path string, state *DownloadState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// loadState reads and parses a sidecar state file. Any failure to read or
// parse is wrapped in a StateError, which callers treat as locally
// recoverable (discard and start fresh).
func loadState(path string) (*DownloadState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StateError{Kind: KindState, Path: path, Cause: err}
	}

	var state DownloadState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, &StateError{Kind: KindState, Path: path, Cause: err}
	}
	if state.Completed == nil {
		state.Completed = make(map[int]bool)
	}
	if state.Partial == nil {
		state.Partial = make(map[int]int64)
	}
	return &state, nil
}

// deleteState removes the sidecar state file, ignoring a not-exist error.
func deleteState(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resumeDecision is the outcome of validating a prior state file against
// the current probe.
type resumeDecision struct {
	resume bool
	state  *DownloadState
}

// resolveResume validates a prior state file against the current probe:
// the output file and the state file must both exist, and the state's
// uri/total_size must match the current probe, for a resume to proceed.
// Any mismatch discards both files and starts fresh.
func resolveResume(outputPath string, uri string, totalSize int64) resumeDecision {
	statePath := stateFilePath(outputPath)

	outInfo, outErr := os.Stat(outputPath)
	if outErr != nil {
		_ = deleteState(statePath)
		return resumeDecision{resume: false}
	}

	state, err := loadState(statePath)
	if err != nil {
		_ = os.Remove(outputPath)
		_ = deleteState(statePath)
		return resumeDecision{resume: false}
	}

	if state.URI != uri || state.TotalSize != totalSize || outInfo.Size() != totalSize {
		_ = os.Remove(outputPath)
		_ = deleteState(statePath)
		return resumeDecision{resume: false}
	}

	return resumeDecision{resume: true, state: state}
}
