package vulkan

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func capabilities(current, minExtent, maxExtent vk.Extent2D, minImages, maxImages uint32) vk.SurfaceCapabilities {
	return vk.SurfaceCapabilities{
		CurrentExtent:  current,
		MinImageExtent: minExtent,
		MaxImageExtent: maxExtent,
		MinImageCount:  minImages,
		MaxImageCount:  maxImages,
	}
}

func TestChooseExtent(t *testing.T) {
	undefined := vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}
	minExtent := vk.Extent2D{Width: 64, Height: 64}
	maxExtent := vk.Extent2D{Width: 1920, Height: 1080}

	tests := []struct {
		name          string
		current       vk.Extent2D
		width, height int
		want          vk.Extent2D
	}{
		{"current extent wins", vk.Extent2D{Width: 800, Height: 600}, 1000, 1000, vk.Extent2D{Width: 800, Height: 600}},
		{"framebuffer in range", undefined, 1024, 768, vk.Extent2D{Width: 1024, Height: 768}},
		{"clamped up", undefined, 10, 20, minExtent},
		{"clamped down", undefined, 4000, 3000, maxExtent},
		{"mixed", undefined, 10, 3000, vk.Extent2D{Width: 64, Height: 1080}},
		{"negative size", undefined, -5, 100, vk.Extent2D{Width: 64, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := capabilities(tt.current, minExtent, maxExtent, 2, 0)
			assert.Equal(t, tt.want, chooseExtent(caps, tt.width, tt.height))
		})
	}
}

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	assert.Equal(t, preferred, chooseSurfaceFormat([]vk.SurfaceFormat{other, preferred}))
	assert.Equal(t, other, chooseSurfaceFormat([]vk.SurfaceFormat{other}))
}

func TestChoosePresentMode(t *testing.T) {
	all := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo, vk.PresentModeMailbox}

	assert.Equal(t, vk.PresentModeMailbox, choosePresentMode(all, false))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode(all, true))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode([]vk.PresentMode{vk.PresentModeImmediate}, false))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode(nil, false))
}

func TestChooseImageCount(t *testing.T) {
	extent := vk.Extent2D{Width: 1, Height: 1}
	assert.Equal(t, uint32(3), chooseImageCount(capabilities(extent, extent, extent, 2, 0)))
	assert.Equal(t, uint32(3), chooseImageCount(capabilities(extent, extent, extent, 2, 8)))
	assert.Equal(t, uint32(2), chooseImageCount(capabilities(extent, extent, extent, 2, 2)))
}

func TestChooseSwapchain(t *testing.T) {
	extent := vk.Extent2D{Width: 640, Height: 480}
	support := swapchainSupport{
		capabilities: capabilities(extent, extent, extent, 2, 3),
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		presentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
	}

	first, err := chooseSwapchain(support, 640, 480, false)
	require.NoError(t, err)
	second, err := chooseSwapchain(support, 640, 480, false)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same surface state must yield the same swapchain")
	assert.Equal(t, extent, first.extent)
	assert.Equal(t, vk.PresentModeMailbox, first.presentMode)
	assert.Equal(t, uint32(3), first.imageCount)

	_, err = chooseSwapchain(swapchainSupport{}, 640, 480, false)
	assert.Error(t, err)
}

type fakeWindow struct {
	sizes  [][2]int
	closed bool
	waits  int
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	size := w.sizes[0]
	if len(w.sizes) > 1 {
		w.sizes = w.sizes[1:]
	}
	return size[0], size[1]
}

func (w *fakeWindow) WaitEvents()       { w.waits++ }
func (w *fakeWindow) ShouldClose() bool { return w.closed }
func (w *fakeWindow) Resized() bool     { return false }

type recordingStages struct {
	calls  []string
	states []SwapchainState
	failAt string
}

func (s *recordingStages) step(name string) error {
	s.calls = append(s.calls, name)
	if name == s.failAt {
		return errors.New(name + " failed")
	}
	return nil
}

func (s *recordingStages) setState(state SwapchainState) { s.states = append(s.states, state) }
func (s *recordingStages) waitIdle() error               { return s.step("wait idle") }
func (s *recordingStages) waitInFlight(int) error        { return s.step("wait in flight") }
func (s *recordingStages) destroyDepth()                 { s.step("destroy depth") }
func (s *recordingStages) destroyImageViews()            { s.step("destroy views") }
func (s *recordingStages) destroySwapchain()             { s.step("destroy swapchain") }
func (s *recordingStages) createSwapchain() error        { return s.step("create swapchain") }
func (s *recordingStages) createImageViews() error       { return s.step("create views") }
func (s *recordingStages) createDepth() error            { return s.step("create depth") }

func TestRecreateSwapchainOrder(t *testing.T) {
	win := &fakeWindow{sizes: [][2]int{{0, 0}, {0, 300}, {800, 600}}}
	stages := &recordingStages{}

	ok, err := recreateSwapchain(win, stages, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, win.waits, "zero sized window is waited out")
	assert.Equal(t, []string{
		"wait idle",
		"wait in flight",
		"destroy depth",
		"destroy views",
		"destroy swapchain",
		"create swapchain",
		"create views",
		"create depth",
	}, stages.calls)
	assert.Equal(t, []SwapchainState{SwapchainInvalidated, SwapchainRecreating, SwapchainActive}, stages.states)
}

func TestRecreateSwapchainWindowClosed(t *testing.T) {
	win := &fakeWindow{sizes: [][2]int{{0, 0}}, closed: true}
	stages := &recordingStages{}

	ok, err := recreateSwapchain(win, stages, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, stages.calls)
	assert.Equal(t, []SwapchainState{SwapchainInvalidated}, stages.states)
}

func TestRecreateSwapchainFailure(t *testing.T) {
	win := &fakeWindow{sizes: [][2]int{{800, 600}}}
	stages := &recordingStages{failAt: "create views"}

	ok, err := recreateSwapchain(win, stages, 0)
	assert.False(t, ok)
	assert.EqualError(t, err, "create views failed")
	assert.NotContains(t, stages.calls, "create depth")
	assert.Equal(t, []SwapchainState{SwapchainInvalidated, SwapchainRecreating}, stages.states)
}

func TestReleaseForReplacedObjects(t *testing.T) {
	tests := []struct {
		stage swapchainStage
		want  []string
	}{
		{stageSwapchain, []string{"wait idle", "destroy depth", "destroy views", "destroy swapchain"}},
		{stageImageViews, []string{"wait idle", "destroy views"}},
		{stageDepth, []string{"wait idle", "destroy depth"}},
	}
	for _, tt := range tests {
		stages := &recordingStages{}
		require.NoError(t, releaseFor(stages, tt.stage, true))
		assert.Equal(t, tt.want, stages.calls)
	}
}

func TestReleaseForNothingLive(t *testing.T) {
	stages := &recordingStages{}
	require.NoError(t, releaseFor(stages, stageSwapchain, false))
	assert.Empty(t, stages.calls)
}

func TestReleaseForWaitIdleFailure(t *testing.T) {
	stages := &recordingStages{failAt: "wait idle"}
	assert.EqualError(t, releaseFor(stages, stageDepth, true), "wait idle failed")
	assert.Equal(t, []string{"wait idle"}, stages.calls)
}

func TestSwapchainStateString(t *testing.T) {
	assert.Equal(t, "active", SwapchainActive.String())
	assert.Equal(t, "invalidated", SwapchainInvalidated.String())
	assert.Equal(t, "recreating", SwapchainRecreating.String())
	assert.Equal(t, "unknown", SwapchainState(42).String())
}
