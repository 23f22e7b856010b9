package vulkan

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

const (
	deviceLocal  = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	hostVisible  = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	hostCoherent = vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
)

func memoryProperties(flags ...vk.MemoryPropertyFlags) vk.PhysicalDeviceMemoryProperties {
	props := vk.PhysicalDeviceMemoryProperties{MemoryTypeCount: uint32(len(flags))}
	for i, f := range flags {
		props.MemoryTypes[i] = vk.MemoryType{PropertyFlags: f}
	}
	return props
}

func TestFindMemoryType(t *testing.T) {
	props := memoryProperties(
		deviceLocal,
		hostVisible,
		hostVisible|hostCoherent,
		deviceLocal|hostVisible|hostCoherent,
	)

	tests := []struct {
		name   string
		filter uint32
		flags  vk.MemoryPropertyFlags
		want   uint32
	}{
		{"first match", 0xf, deviceLocal, 0},
		{"superset accepted", 0xf, hostVisible | hostCoherent, 2},
		{"filter skips", 0b1100, deviceLocal, 3},
		{"no flags", 0b0100, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, err := findMemoryType(props, tt.filter, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, index)
		})
	}
}

func TestFindMemoryTypeNoMatch(t *testing.T) {
	props := memoryProperties(deviceLocal, hostVisible)

	_, err := findMemoryType(props, 0b01, hostVisible)
	assert.ErrorIs(t, err, rhi.ErrNoMemoryType)

	_, err = findMemoryType(props, 0, deviceLocal)
	assert.ErrorIs(t, err, rhi.ErrNoMemoryType)
}

func TestFindMemoryTypeIgnoresTypesPastCount(t *testing.T) {
	props := memoryProperties(deviceLocal)
	props.MemoryTypes[1] = vk.MemoryType{PropertyFlags: hostVisible}

	_, err := findMemoryType(props, 0b11, hostVisible)
	assert.ErrorIs(t, err, rhi.ErrNoMemoryType)
}

func TestWriteMapped(t *testing.T) {
	data := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64)
	mapped := make([]byte, len(data)+8)

	require.NoError(t, writeMapped(unsafe.Pointer(&mapped[0]), data))
	assert.Equal(t, data, mapped[:len(data)])
	assert.Equal(t, make([]byte, 8), mapped[len(data):], "bytes past the copy are untouched")
}
