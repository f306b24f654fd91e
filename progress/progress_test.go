package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBarObserver_QuietModeRendersNoBar(t *testing.T) {
	o := NewBarObserver(true)
	o.OnStart(4, 0)
	require.Nil(t, o.bar)

	o.OnSegmentComplete(0)
	o.OnFinish("/tmp/out.bin")
	o.OnPause(2)
}

func TestBarObserver_TracksCompletedCount(t *testing.T) {
	o := NewBarObserver(true)
	o.OnStart(3, 1)
	require.Equal(t, 1, o.completed)

	o.OnSegmentComplete(0)
	o.OnSegmentComplete(1)
	require.Equal(t, 3, o.completed)
}

func TestBarObserver_NonQuietStartsBar(t *testing.T) {
	o := NewBarObserver(false)
	o.OnStart(5, 2)
	require.NotNil(t, o.bar)
	o.OnFinish("/tmp/out.bin")
}
