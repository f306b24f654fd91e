package downloader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	cases := map[ErrorKind]string{
		KindProbe:    "Probe",
		KindPlan:     "Plan",
		KindFetch:    "Fetch",
		KindState:    "State",
		KindDownload: "Download",
	}
	for kind, want := range cases {
		require.Equal(t, want, kind.String())
	}
}

func TestFetchError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := &FetchError{Kind: KindFetch, SegmentID: 3, Attempts: 5, Cause: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "segment 3")
	require.Equal(t, KindFetch, err.Kind)
}

func TestStateError_UnwrapsCause(t *testing.T) {
	cause := errors.New("yaml: invalid")
	err := &StateError{Kind: KindState, Path: "/tmp/x.state", Cause: cause}
	require.ErrorIs(t, err, cause)
	require.Equal(t, KindState, err.Kind)
}

func TestProbeError_ConstructorsSetKind(t *testing.T) {
	require.Equal(t, KindProbe, newProbeHTTPError("head", 500).Kind)
	require.Equal(t, KindProbe, newProbeNetworkError("head", errors.New("dial tcp: refused")).Kind)
	require.Equal(t, KindProbe, errProbeNoSize.Kind)
}

func TestPlanError_KindSet(t *testing.T) {
	_, err := plan(0, 4)
	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	require.Equal(t, KindPlan, planErr.Kind)
}

func TestDownloadError_IncompleteMessage(t *testing.T) {
	err := newIncompleteError([]int{1, 2, 3})
	require.Contains(t, err.Error(), "3 segment(s) remaining")
}

func TestDownloadError_IOMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := newIOError(cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "disk full")
}
