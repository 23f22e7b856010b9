package vulkan

import (
	"fmt"
	"testing"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

type fakeSignals struct {
	calls     []string
	acquire   []vk.Result
	presents  []vk.Result
	submitErr error
	resize    bool
	image     uint32
	images    uint32
}

func (f *fakeSignals) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSignals) waitInFlight(slot int) error {
	f.record("wait %d", slot)
	return nil
}

func (f *fakeSignals) acquireImage(slot int) (uint32, vk.Result) {
	f.record("acquire %d", slot)
	ret := vk.Success
	if len(f.acquire) > 0 {
		ret, f.acquire = f.acquire[0], f.acquire[1:]
	}
	image := f.image
	if f.images > 0 {
		f.image = (f.image + 1) % f.images
	}
	return image, ret
}

func (f *fakeSignals) resetInFlight(slot int) error {
	f.record("reset fence %d", slot)
	return nil
}

func (f *fakeSignals) resetCommands(slot int) error {
	f.record("reset commands %d", slot)
	return nil
}

func (f *fakeSignals) submit(slot int) error {
	f.record("submit %d", slot)
	return f.submitErr
}

func (f *fakeSignals) present(slot int, image uint32) vk.Result {
	f.record("present %d image %d", slot, image)
	ret := vk.Success
	if len(f.presents) > 0 {
		ret, f.presents = f.presents[0], f.presents[1:]
	}
	return ret
}

func (f *fakeSignals) resized() bool {
	r := f.resize
	f.resize = false
	return r
}

func noRecreate(t *testing.T) func() error {
	return func() error {
		t.Fatal("unexpected swapchain recreation")
		return nil
	}
}

func TestFramePacerOrder(t *testing.T) {
	signals := &fakeSignals{image: 2}
	pacer := newFramePacer(signals, 3)

	ok, err := pacer.begin(noRecreate(t))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(2), pacer.image)
	require.NoError(t, pacer.end(noRecreate(t)))

	assert.Equal(t, []string{
		"wait 0",
		"acquire 0",
		"reset fence 0",
		"reset commands 0",
		"submit 0",
		"present 0 image 2",
	}, signals.calls)
	assert.Equal(t, 1, pacer.current)
}

func TestFramePacerCyclesSlots(t *testing.T) {
	for _, frames := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("F=%d", frames), func(t *testing.T) {
			// More swapchain images than slots, so image index and slot
			// index drift apart.
			signals := &fakeSignals{images: uint32(frames + 1)}
			pacer := newFramePacer(signals, frames)

			var slots []int
			for i := 0; i < 3*frames; i++ {
				slots = append(slots, pacer.current)
				ok, err := pacer.begin(noRecreate(t))
				require.NoError(t, err)
				require.True(t, ok)
				require.NoError(t, pacer.end(noRecreate(t)))
			}
			for i, slot := range slots {
				assert.Equal(t, i%frames, slot)
			}
			assert.Equal(t, 0, pacer.current)

			waits := map[string]int{}
			for _, c := range signals.calls {
				waits[c]++
			}
			for slot := 0; slot < frames; slot++ {
				assert.Equal(t, 3, waits[fmt.Sprintf("wait %d", slot)])
				assert.Equal(t, 3, waits[fmt.Sprintf("reset fence %d", slot)])
			}
		})
	}
}

func TestFramePacerOutOfDateAcquire(t *testing.T) {
	signals := &fakeSignals{acquire: []vk.Result{vk.ErrorOutOfDate}}
	pacer := newFramePacer(signals, 2)

	recreated := 0
	ok, err := pacer.begin(func() error {
		recreated++
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, recreated)
	assert.Equal(t, 0, pacer.current)
	assert.NotContains(t, signals.calls, "reset fence 0")

	err = pacer.end(noRecreate(t))
	assert.ErrorIs(t, err, rhi.ErrFrameNotBegun)

	// The retry reuses the slot and its still signaled fence.
	ok, err = pacer.begin(noRecreate(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, pacer.current)
}

func TestFramePacerSuboptimalAcquireRenders(t *testing.T) {
	signals := &fakeSignals{acquire: []vk.Result{vk.Suboptimal}}
	pacer := newFramePacer(signals, 2)

	ok, err := pacer.begin(noRecreate(t))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFramePacerRecreatesAfterPresent(t *testing.T) {
	tests := []struct {
		name    string
		present vk.Result
		resize  bool
	}{
		{"out of date", vk.ErrorOutOfDate, false},
		{"suboptimal", vk.Suboptimal, false},
		{"resize signal", vk.Success, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := &fakeSignals{presents: []vk.Result{tt.present}, resize: tt.resize}
			pacer := newFramePacer(signals, 3)

			ok, err := pacer.begin(noRecreate(t))
			require.NoError(t, err)
			require.True(t, ok)

			slotAtRecreate := -1
			err = pacer.end(func() error {
				slotAtRecreate = pacer.current
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, 1, slotAtRecreate)
		})
	}
}

func TestFramePacerNativeErrors(t *testing.T) {
	t.Run("acquire", func(t *testing.T) {
		signals := &fakeSignals{acquire: []vk.Result{vk.ErrorDeviceLost}}
		pacer := newFramePacer(signals, 2)
		ok, err := pacer.begin(noRecreate(t))
		assert.False(t, ok)
		assert.Error(t, err)
	})
	t.Run("present", func(t *testing.T) {
		signals := &fakeSignals{presents: []vk.Result{vk.ErrorDeviceLost}}
		pacer := newFramePacer(signals, 2)
		_, err := pacer.begin(noRecreate(t))
		require.NoError(t, err)
		assert.Error(t, pacer.end(noRecreate(t)))
		assert.Equal(t, 1, pacer.current)
	})
}

func TestFramePacerEndTwice(t *testing.T) {
	pacer := newFramePacer(&fakeSignals{}, 2)
	_, err := pacer.begin(noRecreate(t))
	require.NoError(t, err)
	require.NoError(t, pacer.end(noRecreate(t)))
	assert.ErrorIs(t, pacer.end(noRecreate(t)), rhi.ErrFrameNotBegun)
}

func TestFramePacerBeginTwice(t *testing.T) {
	signals := &fakeSignals{}
	pacer := newFramePacer(signals, 2)
	ok, err := pacer.begin(noRecreate(t))
	require.NoError(t, err)
	require.True(t, ok)
	calls := len(signals.calls)

	ok, err = pacer.begin(noRecreate(t))
	assert.False(t, ok)
	assert.ErrorIs(t, err, rhi.ErrFrameAlreadyBegun)
	assert.Len(t, signals.calls, calls, "no wait on a reset, unsubmitted fence")

	// The open frame can still be finished.
	require.NoError(t, pacer.end(noRecreate(t)))
	ok, err = pacer.begin(noRecreate(t))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFramePacerSubmitFailureLatches(t *testing.T) {
	lost := errors.New("device lost")
	signals := &fakeSignals{submitErr: lost}
	pacer := newFramePacer(signals, 2)
	_, err := pacer.begin(noRecreate(t))
	require.NoError(t, err)
	require.ErrorIs(t, pacer.end(noRecreate(t)), lost)
	calls := len(signals.calls)

	signals.submitErr = nil
	ok, err := pacer.begin(noRecreate(t))
	assert.False(t, ok)
	assert.ErrorIs(t, err, lost)
	assert.Len(t, signals.calls, calls)
	assert.ErrorIs(t, pacer.end(noRecreate(t)), rhi.ErrFrameNotBegun)
}
