package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_IgnoresStaleTimerCallback(t *testing.T) {
	orig := afterFunc
	t.Cleanup(func() { afterFunc = orig })

	var callbacks []func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callbacks = append(callbacks, f)
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := NewDebouncer(time.Second, func() { called.Add(1) })
	d.Trigger()
	d.Trigger()

	require.Len(t, callbacks, 2)
	callbacks[0]()
	callbacks[1]()
	assert.Equal(t, int32(1), called.Load(), "only the latest callback runs")
}

func TestDebouncer_StopIgnoresPendingCallback(t *testing.T) {
	orig := afterFunc
	t.Cleanup(func() { afterFunc = orig })

	var callback func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callback = f
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := NewDebouncer(time.Second, func() { called.Add(1) })
	d.Trigger()
	d.Stop()

	require.NotNil(t, callback)
	callback()
	assert.Zero(t, called.Load())
}

func TestDebouncer_TriggerOnce(t *testing.T) {
	var count atomic.Int32
	done := make(chan struct{})
	d := NewDebouncer(10*time.Millisecond, func() {
		count.Add(1)
		close(done)
	})
	d.Trigger()
	d.Trigger()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer did not fire")
	}
	assert.Equal(t, int32(1), count.Load())
}
