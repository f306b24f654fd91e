package downloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadState_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin.state")

	state := newDownloadState("https://example.com/file.bin", 4096)
	state.Completed[0] = true
	state.Partial[1] = 512
	state.Timestamp = time.Now()

	require.NoError(t, saveState(path, state))

	loaded, err := loadState(path)
	require.NoError(t, err)
	require.Equal(t, state.URI, loaded.URI)
	require.Equal(t, state.TotalSize, loaded.TotalSize)
	require.True(t, loaded.Completed[0])
	require.Equal(t, int64(512), loaded.Partial[1])
}

func TestLoadState_MissingFileIsStateError(t *testing.T) {
	_, err := loadState(filepath.Join(t.TempDir(), "nope.state"))
	require.Error(t, err)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestLoadState_CorruptFileIsStateError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.state")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0644))

	_, err := loadState(path)
	require.Error(t, err)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestDeleteState_IgnoresNotExist(t *testing.T) {
	err := deleteState(filepath.Join(t.TempDir(), "absent.state"))
	require.NoError(t, err)
}

func TestResolveResume_MatchingStateResumes(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(outputPath, make([]byte, 100), 0644))

	statePath := stateFilePath(outputPath)
	state := newDownloadState("https://example.com/out.bin", 100)
	state.Completed[0] = true
	require.NoError(t, saveState(statePath, state))

	decision := resolveResume(outputPath, "https://example.com/out.bin", 100)
	require.True(t, decision.resume)
	require.True(t, decision.state.Completed[0])
}

func TestResolveResume_URIMismatchDiscardsBoth(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(outputPath, make([]byte, 100), 0644))

	statePath := stateFilePath(outputPath)
	state := newDownloadState("https://example.com/other.bin", 100)
	require.NoError(t, saveState(statePath, state))

	decision := resolveResume(outputPath, "https://example.com/out.bin", 100)
	require.False(t, decision.resume)

	_, outErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(outErr))
	_, stateErr := os.Stat(statePath)
	require.True(t, os.IsNotExist(stateErr))
}

func TestResolveResume_MissingOutputFileDoesNotResume(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.bin")

	decision := resolveResume(outputPath, "https://example.com/out.bin", 100)
	require.False(t, decision.resume)
}

func TestResolveResume_SizeMismatchDiscardsBoth(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(outputPath, make([]byte, 50), 0644))

	statePath := stateFilePath(outputPath)
	state := newDownloadState("https://example.com/out.bin", 100)
	require.NoError(t, saveState(statePath, state))

	decision := resolveResume(outputPath, "https://example.com/out.bin", 100)
	require.False(t, decision.resume)

	_, outErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(outErr))
	_, stateErr := os.Stat(statePath)
	require.True(t, os.IsNotExist(stateErr))
}
