package vulkan

import (
	"testing"
	"unsafe"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestInitStepsOrder(t *testing.T) {
	d := &Device{}
	steps := d.initSteps()
	require.Len(t, steps, int(DepthResourcesCreated))
	for i, step := range steps {
		assert.Equal(t, InitState(i+1), step.state, "step %d", i)
	}
}

func TestRunInit(t *testing.T) {
	var ran []string
	step := func(name string, err error) func() error {
		return func() error {
			ran = append(ran, name)
			return err
		}
	}

	var reached []InitState
	err := runInit([]initStep{
		{InstanceCreated, step("instance", nil)},
		{SurfaceCreated, step("surface", nil)},
	}, func(s InitState) { reached = append(reached, s) })
	require.NoError(t, err)
	assert.Equal(t, []string{"instance", "surface"}, ran)
	assert.Equal(t, []InitState{InstanceCreated, SurfaceCreated, Ready}, reached)

	ran, reached = nil, nil
	err = runInit([]initStep{
		{InstanceCreated, step("instance", nil)},
		{PhysicalDeviceSelected, step("gpu", rhi.ErrNoPhysicalDevice)},
		{LogicalDeviceAndQueuesCreated, step("device", nil)},
	}, func(s InitState) { reached = append(reached, s) })
	assert.ErrorIs(t, err, rhi.ErrNoPhysicalDevice)
	assert.Contains(t, err.Error(), "physical device selected")
	assert.Equal(t, []string{"instance", "gpu"}, ran)
	assert.Equal(t, []InitState{InstanceCreated}, reached)
}

func TestInitStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "sync primitives created", SyncPrimitivesCreated.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "unknown", InitState(-1).String())
	assert.Equal(t, "unknown", (Ready + 1).String())
}

type plainWindow struct{ fakeWindow }

type stubSurface struct{ fakeWindow }

func (*stubSurface) RequiredInstanceExtensions() []string { return nil }
func (*stubSurface) VulkanProcAddr() unsafe.Pointer        { return nil }
func (*stubSurface) CreateWindowSurface(vk.Instance) (vk.Surface, error) {
	return vk.NullSurface, errors.New("no surface")
}

func TestNewDeviceRejects(t *testing.T) {
	_, err := NewDevice(rhi.InitInfo{Window: &plainWindow{}, Config: rhi.DefaultConfig()})
	assert.Error(t, err)

	cfg := rhi.DefaultConfig()
	cfg.FramesInFlight = 0
	_, err = NewDevice(rhi.InitInfo{Window: &stubSurface{}, Config: cfg})
	assert.Error(t, err)
}

func TestDestroyUninitialized(t *testing.T) {
	d := &Device{}
	assert.NotPanics(t, d.Destroy)
	assert.NotPanics(t, d.Destroy)
	assert.NoError(t, d.WaitIdle())
	assert.Equal(t, Uninitialized, d.State())
}

func TestNewError(t *testing.T) {
	assert.NoError(t, newError(0, "noop"))
	err := newError(-1, "create thing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create thing")
	assert.NotNil(t, errors.Cause(err))
}
