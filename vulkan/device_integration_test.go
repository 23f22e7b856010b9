package vulkan

import (
	"bytes"
	"os"
	"testing"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/andewx/dieselrhi/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGPUDevice brings up a real device behind a small test window. Set
// DIESEL_GPU_TESTS=1 on a machine with a Vulkan driver.
func newGPUDevice(t *testing.T) *Device {
	if os.Getenv("DIESEL_GPU_TESTS") != "1" {
		t.Skip("DIESEL_GPU_TESTS not set")
	}
	require.NoError(t, window.Init())
	t.Cleanup(window.Terminate)

	cfg := rhi.DefaultConfig().WithDefaults()
	cfg.Window.Width, cfg.Window.Height = 320, 240
	cfg.FramesInFlight = 2
	win, err := window.New(cfg.Window)
	require.NoError(t, err)
	t.Cleanup(win.Destroy)

	dev, err := NewDevice(rhi.InitInfo{Window: win, Config: cfg})
	require.NoError(t, err)
	t.Cleanup(dev.Destroy)
	require.Equal(t, Ready, dev.State())
	return dev
}

func TestGPUDeviceReady(t *testing.T) {
	dev := newGPUDevice(t)

	assert.Equal(t, 2, dev.MaxFramesInFlight())
	assert.Len(t, dev.CommandBuffers(), 2)
	info := dev.SwapchainInfo()
	assert.NotEmpty(t, info.ImageViews)
	assert.NotZero(t, info.Extent.Width)
	depth := dev.DepthImageInfo()
	assert.True(t, depth.View.Valid())
	assert.NotEqual(t, rhi.FormatUndefined, depth.Format)
}

func TestGPURecreateAttachmentsInPlace(t *testing.T) {
	dev := newGPUDevice(t)

	require.NoError(t, dev.CreateFramebufferImageAndView())
	require.NoError(t, dev.CreateFramebufferImageAndView())
	assert.True(t, dev.DepthImageInfo().View.Valid())

	require.NoError(t, dev.CreateSwapchain())
	assert.Empty(t, dev.SwapchainInfo().ImageViews)
	assert.False(t, dev.DepthImageInfo().View.Valid())
	require.NoError(t, dev.CreateSwapchainImageViews())
	require.NoError(t, dev.CreateSwapchainImageViews())
	require.NoError(t, dev.CreateFramebufferImageAndView())
	assert.NotEmpty(t, dev.SwapchainInfo().ImageViews)
}

func TestGPUStagedCopyRoundTrip(t *testing.T) {
	dev := newGPUDevice(t)

	payload := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64)
	src, srcMem, err := dev.CreateBufferAndCopyData(rhi.BufferCreateInfo{
		Usage: rhi.BufferUsageTransferSrc,
	}, payload)
	require.NoError(t, err)
	defer dev.FreeMemory(srcMem)
	defer dev.DestroyBuffer(src)

	dst, dstMem, err := dev.CreateBuffer(rhi.BufferCreateInfo{
		Size:  rhi.DeviceSize(len(payload)),
		Usage: rhi.BufferUsageTransferDst,
	}, rhi.MemoryPropertyHostVisible|rhi.MemoryPropertyHostCoherent)
	require.NoError(t, err)
	defer dev.FreeMemory(dstMem)
	defer dev.DestroyBuffer(dst)

	cmd, err := dev.BeginOneTimeCommandBuffer()
	require.NoError(t, err)
	dev.CmdCopyBuffer(cmd, src, dst, []rhi.BufferCopy{{Size: rhi.DeviceSize(len(payload))}})
	require.NoError(t, dev.EndOneTimeCommandBuffer(cmd))

	mapped, err := dev.MapMemory(dstMem, 0, rhi.DeviceSize(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, mapped)
	dev.UnmapMemory(dstMem)
}

func TestGPUImageUploadAndSampler(t *testing.T) {
	dev := newGPUDevice(t)

	pixels := bytes.Repeat([]byte{0xff, 0x00, 0x00, 0xff}, 4*4)
	image, view, mem, err := dev.CreateImageAndCopyData(rhi.ImageCreateInfo{
		Width:  4,
		Height: 4,
		Format: rhi.FormatR8G8B8A8Unorm,
		Usage:  rhi.ImageUsageSampled,
	}, pixels)
	require.NoError(t, err)
	assert.True(t, view.Valid())
	dev.DestroyImageView(view)
	dev.DestroyImage(image)
	dev.FreeMemory(mem)

	sampler, err := dev.CreateSampler(rhi.SamplerCreateInfo{
		MagFilter: rhi.FilterLinear,
		MinFilter: rhi.FilterLinear,
		MaxLod:    1,
	})
	require.NoError(t, err)
	dev.DestroySampler(sampler)
}
